package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/store"
)

// PostgresEntryStore implements store.EntryStore.
type PostgresEntryStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresEntryStore creates an entry store on db.
func NewPostgresEntryStore(db store.DBTX, logger *slog.Logger) *PostgresEntryStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresEntryStore{
		db:     db,
		logger: logger.With(slog.String("component", "entry_store")),
	}
}

var _ store.EntryStore = (*PostgresEntryStore)(nil)

const entryColumns = `
	id, user_id, text, entry_date, image_url, set_id, question_index,
	question_text, energy_level, archived, created_at, updated_at
`

// WithTx implements store.EntryStore.WithTx
func (s *PostgresEntryStore) WithTx(tx *sql.Tx) store.EntryStore {
	return &PostgresEntryStore{db: tx, logger: s.logger}
}

// Create implements store.EntryStore.Create
func (s *PostgresEntryStore) Create(ctx context.Context, entry *domain.Entry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := entry.Validate(); err != nil {
		log.Warn("entry validation failed during create",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	setID, index := entryAnswerColumns(entry)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		entry.ID, entry.UserID, entry.Text, entry.Date, entry.ImageURL, setID, index,
		entry.QuestionText, entry.EnergyLevel, entry.Archived, entry.CreatedAt, entry.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()),
			slog.String("user_id", entry.UserID.String()))
		return MapError(err)
	}

	log.Debug("entry created",
		slog.String("entry_id", entry.ID.String()),
		slog.String("user_id", entry.UserID.String()))
	return nil
}

// GetByID implements store.EntryStore.GetByID
func (s *PostgresEntryStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = $1 AND user_id = $2`, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrEntryNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", id.String()))
		return nil, MapError(err)
	}
	return entry, nil
}

// FindAnswer implements store.EntryStore.FindAnswer
func (s *PostgresEntryStore) FindAnswer(
	ctx context.Context,
	userID, setID uuid.UUID,
	index int,
	dayStart, dayEnd time.Time,
) (*domain.Entry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE user_id = $1 AND set_id = $2 AND question_index = $3
			AND entry_date >= $4 AND entry_date < $5
		ORDER BY created_at
		LIMIT 1
	`, userID, setID, index, dayStart, dayEnd))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrEntryNotFound
	}
	if err != nil {
		return nil, MapError(err)
	}
	return entry, nil
}

// List implements store.EntryStore.List
func (s *PostgresEntryStore) List(ctx context.Context, q store.EntryQuery) ([]*domain.Entry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+entryColumns+` FROM entries
		WHERE user_id = $1 AND entry_date >= $2 AND entry_date < $3
			AND ($4 OR NOT archived)
		ORDER BY entry_date DESC, created_at DESC
	`, q.UserID, q.From, q.To, q.IncludeArchived)
	if err != nil {
		log.Error("failed to list entries",
			slog.String("error", err.Error()),
			slog.String("user_id", q.UserID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*domain.Entry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry rows: %w", err)
	}
	return entries, nil
}

// Days implements store.EntryStore.Days
func (s *PostgresEntryStore) Days(ctx context.Context, q store.EntryQuery, loc *time.Location) ([]time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT to_char(entry_date AT TIME ZONE $4, 'YYYY-MM-DD') AS day
		FROM entries
		WHERE user_id = $1 AND entry_date >= $2 AND entry_date < $3 AND NOT archived
		ORDER BY day
	`, q.UserID, q.From, q.To, loc.String())
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	days := make([]time.Time, 0)
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan entry day: %w", err)
		}
		t, err := time.ParseInLocation("2006-01-02", day, loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse entry day %q: %w", day, err)
		}
		days = append(days, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry days: %w", err)
	}
	return days, nil
}

// Update implements store.EntryStore.Update
func (s *PostgresEntryStore) Update(ctx context.Context, entry *domain.Entry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	entry.UpdatedAt = time.Now().UTC()
	setID, index := entryAnswerColumns(entry)
	result, err := s.db.ExecContext(ctx, `
		UPDATE entries SET
			text = $1, entry_date = $2, image_url = $3, set_id = $4, question_index = $5,
			question_text = $6, energy_level = $7, archived = $8, updated_at = $9
		WHERE id = $10 AND user_id = $11
	`,
		entry.Text, entry.Date, entry.ImageURL, setID, index,
		entry.QuestionText, entry.EnergyLevel, entry.Archived, entry.UpdatedAt,
		entry.ID, entry.UserID,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update entry",
			slog.String("error", err.Error()),
			slog.String("entry_id", entry.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrEntryNotFound)
}

// Delete implements store.EntryStore.Delete
func (s *PostgresEntryStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrEntryNotFound)
}

func entryAnswerColumns(e *domain.Entry) (uuid.NullUUID, sql.NullInt32) {
	var (
		setID uuid.NullUUID
		index sql.NullInt32
	)
	if e.SetID != nil {
		setID = uuid.NullUUID{UUID: *e.SetID, Valid: true}
	}
	if e.QuestionIndex != nil {
		index = sql.NullInt32{Int32: int32(*e.QuestionIndex), Valid: true}
	}
	return setID, index
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	var (
		entry domain.Entry
		setID uuid.NullUUID
		index sql.NullInt32
	)

	err := row.Scan(
		&entry.ID, &entry.UserID, &entry.Text, &entry.Date, &entry.ImageURL, &setID, &index,
		&entry.QuestionText, &entry.EnergyLevel, &entry.Archived, &entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if setID.Valid {
		id := setID.UUID
		entry.SetID = &id
	}
	if index.Valid {
		i := int(index.Int32)
		entry.QuestionIndex = &i
	}
	return &entry, nil
}
