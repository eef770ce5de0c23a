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

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// userColumns is shared by every query that loads a full user. The last
// column aggregates the user's opt-outs into a JSON array.
const userColumns = `
	u.id, u.email, u.hashed_password, u.role,
	u.name, u.work_days, u.reminder_time, u.reminder_density, u.reminder_topics,
	u.push_token, u.onboarded,
	u.active_set_id, u.active_question_index, u.active_started_at,
	u.created_at, u.updated_at,
	COALESCE((SELECT json_agg(o.set_id) FROM user_set_opt_outs o WHERE o.user_id = u.id), '[]'::json)
`

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if user.HashedPassword == "" {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrEmptyHashedPassword)
	}

	workDays, topics, err := encodeProfileLists(user.Profile)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (
			id, email, hashed_password, role,
			name, work_days, reminder_time, reminder_density, reminder_topics,
			push_token, onboarded, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Profile.Name,
		workDays,
		user.Profile.ReminderTime,
		user.Profile.ReminderDensity,
		topics,
		user.Profile.PushToken,
		user.Profile.Onboarded,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrEmailExists) {
			log.Warn("attempt to create user with existing email",
				slog.String("user_id", user.ID.String()))
		} else {
			log.Error("failed to create user",
				slog.String("error", err.Error()),
				slog.String("user_id", user.ID.String()))
		}
		return mapped
	}

	log.Info("user created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id)
}

// GetByIDForUpdate implements store.UserStore.GetByIDForUpdate
func (s *PostgresUserStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1 FOR UPDATE OF u`, id)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users u WHERE u.email = lower(btrim($1))`, email)
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to load user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return user, nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	workDays, topics, err := encodeProfileLists(user.Profile)
	if err != nil {
		return err
	}

	user.UpdatedAt = time.Now().UTC()
	query := `
		UPDATE users SET
			email = $1, hashed_password = $2, role = $3,
			name = $4, work_days = $5, reminder_time = $6, reminder_density = $7,
			reminder_topics = $8, onboarded = $9, updated_at = $10
		WHERE id = $11
	`
	result, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.HashedPassword,
		user.Role,
		user.Profile.Name,
		workDays,
		user.Profile.ReminderTime,
		user.Profile.ReminderDensity,
		topics,
		user.Profile.Onboarded,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// SetPushToken implements store.UserStore.SetPushToken
func (s *PostgresUserStore) SetPushToken(ctx context.Context, id uuid.UUID, token string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET push_token = $1, updated_at = NOW() WHERE id = $2`,
		token, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// SetActiveSet implements store.UserStore.SetActiveSet
func (s *PostgresUserStore) SetActiveSet(ctx context.Context, id uuid.UUID, pointer *domain.ActiveSetPointer) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var (
		setID     uuid.NullUUID
		index     int
		startedAt sql.NullTime
	)
	if pointer != nil {
		if err := pointer.Validate(); err != nil {
			return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
		}
		setID = uuid.NullUUID{UUID: pointer.SetID, Valid: true}
		index = pointer.CurrentQuestionIndex
		startedAt = sql.NullTime{Time: pointer.StartedAt, Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			active_set_id = $1, active_question_index = $2, active_started_at = $3, updated_at = NOW()
		WHERE id = $4
	`, setID, index, startedAt, id)
	if err != nil {
		log.Error("failed to store active set",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// AddOptOut implements store.UserStore.AddOptOut
func (s *PostgresUserStore) AddOptOut(ctx context.Context, userID, setID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_set_opt_outs (user_id, set_id) VALUES ($1, $2)
		ON CONFLICT (user_id, set_id) DO NOTHING
	`, userID, setID)
	return MapError(err)
}

// RemoveOptOut implements store.UserStore.RemoveOptOut
func (s *PostgresUserStore) RemoveOptOut(ctx context.Context, userID, setID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_set_opt_outs WHERE user_id = $1 AND set_id = $2`,
		userID, setID)
	return MapError(err)
}

// ListPushRecipients implements store.UserStore.ListPushRecipients
func (s *PostgresUserStore) ListPushRecipients(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.push_token <> '' ORDER BY u.created_at`)
	if err != nil {
		log.Error("failed to query push recipients", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var users []*domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

// Delete implements store.UserStore.Delete
func (s *PostgresUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrUserNotFound)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user      domain.User
		role      string
		density   string
		workDays  []byte
		topics    []byte
		setID     uuid.NullUUID
		index     int
		startedAt sql.NullTime
		optOuts   []byte
	)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&role,
		&user.Profile.Name,
		&workDays,
		&user.Profile.ReminderTime,
		&density,
		&topics,
		&user.Profile.PushToken,
		&user.Profile.Onboarded,
		&setID,
		&index,
		&startedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
		&optOuts,
	)
	if err != nil {
		return nil, err
	}

	user.Role = domain.Role(role)
	user.Profile.ReminderDensity = domain.ReminderDensity(density)
	if err := json.Unmarshal(workDays, &user.Profile.WorkDays); err != nil {
		return nil, fmt.Errorf("decode work days: %w", err)
	}
	if err := json.Unmarshal(topics, &user.Profile.ReminderTopics); err != nil {
		return nil, fmt.Errorf("decode reminder topics: %w", err)
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(optOuts, &ids); err != nil {
		return nil, fmt.Errorf("decode opt-outs: %w", err)
	}
	user.OptOuts = domain.NewOptOutSet(ids...)

	if setID.Valid {
		user.ActiveSet = &domain.ActiveSetPointer{
			SetID:                setID.UUID,
			CurrentQuestionIndex: index,
			StartedAt:            startedAt.Time,
		}
	}

	return &user, nil
}

func encodeProfileLists(p domain.Profile) (workDays, topics string, err error) {
	days := p.WorkDays
	if days == nil {
		days = []int{}
	}
	d, err := json.Marshal(days)
	if err != nil {
		return "", "", fmt.Errorf("encode work days: %w", err)
	}
	ts := p.ReminderTopics
	if ts == nil {
		ts = []string{}
	}
	t, err := json.Marshal(ts)
	if err != nil {
		return "", "", fmt.Errorf("encode reminder topics: %w", err)
	}
	return string(d), string(t), nil
}
