package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/store"
)

// PostgresQuestionSetStore implements store.QuestionSetStore. Questions,
// creator and enrichment are kept as JSONB.
type PostgresQuestionSetStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionSetStore creates a question set store on db.
func NewPostgresQuestionSetStore(db store.DBTX, logger *slog.Logger) *PostgresQuestionSetStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresQuestionSetStore{
		db:     db,
		logger: logger.With(slog.String("component", "question_set_store")),
	}
}

var _ store.QuestionSetStore = (*PostgresQuestionSetStore)(nil)

const questionSetColumns = `
	id, title, description, short_description, emoji, cover_image_url,
	questions, creator, enrichment, type, month_key, created_at, updated_at
`

// WithTx implements store.QuestionSetStore.WithTx
func (s *PostgresQuestionSetStore) WithTx(tx *sql.Tx) store.QuestionSetStore {
	return &PostgresQuestionSetStore{db: tx, logger: s.logger}
}

// Create implements store.QuestionSetStore.Create
func (s *PostgresQuestionSetStore) Create(ctx context.Context, set *domain.QuestionSet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		log.Warn("question set validation failed during create",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	cols, err := encodeSetColumns(set)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO question_sets (`+questionSetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`,
		set.ID, set.Title, set.Description, set.ShortDescription, set.Emoji, set.CoverImageURL,
		cols.questions, cols.creator, cols.enrichment, set.Type, cols.monthKey,
		set.CreatedAt, set.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrMonthKeyTaken) {
			log.Warn("monthly set already exists for month",
				slog.String("month_key", set.MonthKey))
		} else {
			log.Error("failed to create question set",
				slog.String("error", err.Error()),
				slog.String("set_id", set.ID.String()))
		}
		return mapped
	}

	log.Info("question set created",
		slog.String("set_id", set.ID.String()),
		slog.String("type", string(set.Type)))
	return nil
}

// GetByID implements store.QuestionSetStore.GetByID
func (s *PostgresQuestionSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionSet, error) {
	set, err := scanQuestionSet(s.db.QueryRowContext(ctx,
		`SELECT `+questionSetColumns+` FROM question_sets WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSetNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get question set",
			slog.String("error", err.Error()),
			slog.String("set_id", id.String()))
		return nil, MapError(err)
	}
	return set, nil
}

// GetMonthly implements store.QuestionSetStore.GetMonthly
func (s *PostgresQuestionSetStore) GetMonthly(ctx context.Context, monthKey string) (*domain.QuestionSet, error) {
	set, err := scanQuestionSet(s.db.QueryRowContext(ctx,
		`SELECT `+questionSetColumns+` FROM question_sets WHERE type = 'monthly' AND month_key = $1`,
		monthKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrSetNotFound
	}
	if err != nil {
		return nil, MapError(err)
	}
	return set, nil
}

// List implements store.QuestionSetStore.List
func (s *PostgresQuestionSetStore) List(ctx context.Context) ([]*domain.QuestionSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionSetColumns+` FROM question_sets ORDER BY created_at, id`)
	if err != nil {
		log.Error("failed to list question sets", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	sets := make([]*domain.QuestionSet, 0)
	for rows.Next() {
		set, err := scanQuestionSet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question set row: %w", err)
		}
		sets = append(sets, set)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating question set rows: %w", err)
	}
	return sets, nil
}

// Update implements store.QuestionSetStore.Update
func (s *PostgresQuestionSetStore) Update(ctx context.Context, set *domain.QuestionSet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := set.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	cols, err := encodeSetColumns(set)
	if err != nil {
		return err
	}

	set.UpdatedAt = time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		UPDATE question_sets SET
			title = $1, description = $2, short_description = $3, emoji = $4,
			cover_image_url = $5, questions = $6, creator = $7, enrichment = $8,
			type = $9, month_key = $10, updated_at = $11
		WHERE id = $12
	`,
		set.Title, set.Description, set.ShortDescription, set.Emoji,
		set.CoverImageURL, cols.questions, cols.creator, cols.enrichment,
		set.Type, cols.monthKey, set.UpdatedAt,
		set.ID,
	)
	if err != nil {
		log.Error("failed to update question set",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrSetNotFound)
}

// Delete implements store.QuestionSetStore.Delete. Answers keep their text
// and question prompt but lose the link to the set.
func (s *PostgresQuestionSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE entries SET set_id = NULL, question_index = NULL WHERE set_id = $1`, id); err != nil {
		return MapError(err)
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM question_sets WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrSetNotFound)
}

type setColumns struct {
	questions  string
	creator    sql.NullString
	enrichment sql.NullString
	monthKey   sql.NullString
}

func encodeSetColumns(set *domain.QuestionSet) (setColumns, error) {
	var cols setColumns

	q, err := json.Marshal(set.Questions)
	if err != nil {
		return cols, fmt.Errorf("encode questions: %w", err)
	}
	cols.questions = string(q)

	if set.Creator != nil {
		c, err := json.Marshal(set.Creator)
		if err != nil {
			return cols, fmt.Errorf("encode creator: %w", err)
		}
		cols.creator = sql.NullString{String: string(c), Valid: true}
	}
	if set.Enrichment != nil {
		e, err := json.Marshal(set.Enrichment)
		if err != nil {
			return cols, fmt.Errorf("encode enrichment: %w", err)
		}
		cols.enrichment = sql.NullString{String: string(e), Valid: true}
	}
	if set.MonthKey != "" {
		cols.monthKey = sql.NullString{String: set.MonthKey, Valid: true}
	}
	return cols, nil
}

func scanQuestionSet(row rowScanner) (*domain.QuestionSet, error) {
	var (
		set        domain.QuestionSet
		questions  []byte
		creator    []byte
		enrichment []byte
		setType    string
		monthKey   sql.NullString
	)

	err := row.Scan(
		&set.ID, &set.Title, &set.Description, &set.ShortDescription, &set.Emoji, &set.CoverImageURL,
		&questions, &creator, &enrichment, &setType, &monthKey, &set.CreatedAt, &set.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	set.Type = domain.SetType(setType)
	set.MonthKey = monthKey.String
	if err := json.Unmarshal(questions, &set.Questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	if len(creator) > 0 {
		set.Creator = &domain.Creator{}
		if err := json.Unmarshal(creator, set.Creator); err != nil {
			return nil, fmt.Errorf("decode creator: %w", err)
		}
	}
	if len(enrichment) > 0 {
		set.Enrichment = &domain.Enrichment{}
		if err := json.Unmarshal(enrichment, set.Enrichment); err != nil {
			return nil, fmt.Errorf("decode enrichment: %w", err)
		}
	}
	return &set, nil
}
