package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
)

// UserStore defines the interface for user data persistence. A loaded user
// carries its profile, active-set pointer and opt-outs.
type UserStore interface {
	// Create saves a new user with its HashedPassword already set.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByIDForUpdate loads a user and locks the row until the surrounding
	// transaction ends, serialising read-modify-write flows for one user.
	// Call it on a store bound with WithTx.
	// Returns ErrUserNotFound if the user does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update modifies email, password hash, role and profile.
	// Returns ErrUserNotFound if the user does not exist.
	// Returns ErrEmailExists if updating to an email that already exists.
	Update(ctx context.Context, user *domain.User) error

	// SetPushToken stores the device token reminders are sent to. An empty
	// token disables push for the user.
	SetPushToken(ctx context.Context, id uuid.UUID, token string) error

	// SetActiveSet replaces the user's pointer. A nil pointer clears it.
	SetActiveSet(ctx context.Context, id uuid.UUID, pointer *domain.ActiveSetPointer) error

	// AddOptOut records that the user declined a monthly set. Idempotent.
	AddOptOut(ctx context.Context, userID, setID uuid.UUID) error

	// RemoveOptOut clears a decline. Idempotent.
	RemoveOptOut(ctx context.Context, userID, setID uuid.UUID) error

	// ListPushRecipients returns every user with a push token.
	ListPushRecipients(ctx context.Context) ([]*domain.User, error)

	// Delete removes a user and everything they own.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
