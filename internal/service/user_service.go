package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/service/auth"
	"github.com/yoman-app/yoman-api/internal/store"
)

// UserService provides account operations: registration, login, password
// and role changes.
type UserService interface {
	// Register creates a user with the default profile and a hashed password.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate returns the user when email and password match, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdatePassword replaces the user's password hash.
	UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error

	// SetRole changes the role of the user with the given email.
	SetRole(ctx context.Context, email string, role domain.Role) (*domain.User, error)

	// DeleteUser deletes a user and, through cascades, their journal.
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	db     *sql.DB
	logger *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(users store.UserStore, hasher auth.PasswordHasher, db *sql.DB, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		users:  users,
		hasher: hasher,
		db:     db,
		logger: logger.With(slog.String("component", "user_service")),
	}
}

func (s *userService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, NewServiceError("user", "register", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("attempted to register an existing email")
			return nil, err
		}
		log.Error("failed to save user", slog.String("error", err.Error()))
		return nil, NewServiceError("user", "register", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

func (s *userService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, NewServiceError("user", "authenticate", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, err
		}
		return nil, NewServiceError("user", "get", err)
	}
	return user, nil
}

func (s *userService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if err := domain.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return NewServiceError("user", "update_password", err)
	}

	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		user.HashedPassword = hashed
		return users.Update(ctx, user)
	})
}

func (s *userService) SetRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, domain.ErrInvalidRole)
	}

	var user *domain.User
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		var err error
		user, err = users.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		user.Role = role
		return users.Update(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user role changed",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(role)))
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Delete(ctx, userID)
	})
}
