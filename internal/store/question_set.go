package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
)

// QuestionSetStore persists the question set catalog.
type QuestionSetStore interface {
	// Create saves a new set.
	// Returns ErrMonthKeyTaken if a monthly set for the same month exists.
	Create(ctx context.Context, set *domain.QuestionSet) error

	// GetByID returns ErrSetNotFound if the set does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionSet, error)

	// GetMonthly returns the monthly set for a month key, or ErrSetNotFound.
	GetMonthly(ctx context.Context, monthKey string) (*domain.QuestionSet, error)

	// List returns the whole catalog, oldest first.
	List(ctx context.Context) ([]*domain.QuestionSet, error)

	// Update replaces every mutable field of the set.
	// Returns ErrSetNotFound or ErrMonthKeyTaken.
	Update(ctx context.Context, set *domain.QuestionSet) error

	// Delete removes the set. Pointers referencing it are cleared.
	Delete(ctx context.Context, id uuid.UUID) error

	WithTx(tx *sql.Tx) QuestionSetStore
}
