package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
)

// EntryQuery selects a user's entries dated in [From, To).
type EntryQuery struct {
	UserID          uuid.UUID
	From            time.Time
	To              time.Time
	IncludeArchived bool
}

// EntryStore persists diary entries. Every read and write is scoped to the
// owning user; an entry of another user is reported as ErrEntryNotFound.
type EntryStore interface {
	Create(ctx context.Context, entry *domain.Entry) error

	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Entry, error)

	// FindAnswer returns the entry answering question index of setID dated
	// within [dayStart, dayEnd), or ErrEntryNotFound.
	FindAnswer(
		ctx context.Context,
		userID, setID uuid.UUID,
		index int,
		dayStart, dayEnd time.Time,
	) (*domain.Entry, error)

	// List returns matching entries, newest first.
	List(ctx context.Context, q EntryQuery) ([]*domain.Entry, error)

	// Days returns the distinct dates (midnight in loc) that have at least
	// one unarchived entry in the query window.
	Days(ctx context.Context, q EntryQuery, loc *time.Location) ([]time.Time, error)

	Update(ctx context.Context, entry *domain.Entry) error

	Delete(ctx context.Context, userID, id uuid.UUID) error

	WithTx(tx *sql.Tx) EntryStore
}
