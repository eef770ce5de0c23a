package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
)

// MonthlyGoalsStore persists goals keyed by user and Hebrew month.
type MonthlyGoalsStore interface {
	// Get returns ErrNotFound when the month was never saved.
	Get(ctx context.Context, userID uuid.UUID, monthKey string) (*domain.MonthlyGoals, error)

	// Upsert creates or replaces the goals of one month.
	Upsert(ctx context.Context, goals *domain.MonthlyGoals) error

	WithTx(tx *sql.Tx) MonthlyGoalsStore
}
