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

// PostgresGoalsStore implements store.MonthlyGoalsStore. Each category is a
// JSONB array of goals.
type PostgresGoalsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGoalsStore creates a monthly goals store on db.
func NewPostgresGoalsStore(db store.DBTX, logger *slog.Logger) *PostgresGoalsStore {
	if db == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresGoalsStore{
		db:     db,
		logger: logger.With(slog.String("component", "goals_store")),
	}
}

var _ store.MonthlyGoalsStore = (*PostgresGoalsStore)(nil)

// WithTx implements store.MonthlyGoalsStore.WithTx
func (s *PostgresGoalsStore) WithTx(tx *sql.Tx) store.MonthlyGoalsStore {
	return &PostgresGoalsStore{db: tx, logger: s.logger}
}

// Get implements store.MonthlyGoalsStore.Get
func (s *PostgresGoalsStore) Get(ctx context.Context, userID uuid.UUID, monthKey string) (*domain.MonthlyGoals, error) {
	goals := domain.MonthlyGoals{UserID: userID, MonthKey: monthKey}
	var professional, personal, spiritual []byte

	err := s.db.QueryRowContext(ctx, `
		SELECT professional, personal, spiritual, created_at, updated_at
		FROM monthly_goals
		WHERE user_id = $1 AND month_key = $2
	`, userID, monthKey).Scan(&professional, &personal, &spiritual, &goals.CreatedAt, &goals.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get monthly goals",
			slog.String("error", err.Error()),
			slog.String("month_key", monthKey))
		return nil, MapError(err)
	}

	for _, c := range []struct {
		raw  []byte
		dest *[]domain.Goal
	}{
		{professional, &goals.Professional},
		{personal, &goals.Personal},
		{spiritual, &goals.Spiritual},
	} {
		if err := json.Unmarshal(c.raw, c.dest); err != nil {
			return nil, fmt.Errorf("decode goals: %w", err)
		}
	}
	return &goals, nil
}

// Upsert implements store.MonthlyGoalsStore.Upsert
func (s *PostgresGoalsStore) Upsert(ctx context.Context, goals *domain.MonthlyGoals) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := goals.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	encoded := make([]string, 0, 3)
	for _, list := range [][]domain.Goal{goals.Professional, goals.Personal, goals.Spiritual} {
		if list == nil {
			list = []domain.Goal{}
		}
		b, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("encode goals: %w", err)
		}
		encoded = append(encoded, string(b))
	}

	now := time.Now().UTC()
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO monthly_goals (user_id, month_key, professional, personal, spiritual, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id, month_key) DO UPDATE SET
			professional = EXCLUDED.professional,
			personal = EXCLUDED.personal,
			spiritual = EXCLUDED.spiritual,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`, goals.UserID, goals.MonthKey, encoded[0], encoded[1], encoded[2], now).
		Scan(&goals.CreatedAt, &goals.UpdatedAt)
	if err != nil {
		log.Error("failed to save monthly goals",
			slog.String("error", err.Error()),
			slog.String("month_key", goals.MonthKey))
		return MapError(err)
	}
	return nil
}
