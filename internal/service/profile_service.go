package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/store"
)

// ProfileService reads and edits the onboarding answers and reminder
// settings.
type ProfileService interface {
	// Get returns the user's profile.
	Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)

	// Update replaces the editable profile fields and marks the user as
	// onboarded. The push token is not touched.
	Update(ctx context.Context, userID uuid.UUID, profile domain.Profile) (*domain.Profile, error)

	// SavePushToken stores the device token reminders are sent to. An empty
	// token unsubscribes.
	SavePushToken(ctx context.Context, userID uuid.UUID, token string) error
}

type profileService struct {
	users  store.UserStore
	db     *sql.DB
	logger *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(users store.UserStore, db *sql.DB, logger *slog.Logger) ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &profileService{
		users:  users,
		db:     db,
		logger: logger.With(slog.String("component", "profile_service")),
	}
}

func (s *profileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user.Profile, nil
}

func (s *profileService) Update(ctx context.Context, userID uuid.UUID, profile domain.Profile) (*domain.Profile, error) {
	profile.Normalize()
	if profile.ReminderTime == "" {
		profile.ReminderTime = domain.DefaultReminderTime
	}
	if profile.ReminderDensity == "" {
		profile.ReminderDensity = domain.DefaultReminderDensity
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var updated domain.Profile
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		user, err := users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		profile.PushToken = user.Profile.PushToken
		profile.Onboarded = true
		user.Profile = profile
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		updated = user.Profile
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("profile updated",
		slog.String("user_id", userID.String()))
	return &updated, nil
}

func (s *profileService) SavePushToken(ctx context.Context, userID uuid.UUID, token string) error {
	token = strings.TrimSpace(token)
	if len(token) > 4096 {
		return fmt.Errorf("%w: push token is too long", domain.ErrValidation)
	}
	if err := s.users.SetPushToken(ctx, userID, token); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("push token saved",
		slog.String("user_id", userID.String()),
		slog.Bool("subscribed", token != ""))
	return nil
}
