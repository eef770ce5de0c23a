package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/hebcal"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/store"
)

// CurrentMonthKey is accepted wherever a month key is expected and means the
// Hebrew month containing now.
const CurrentMonthKey = "current"

// GoalsView is one month's goals plus navigation.
type GoalsView struct {
	Goals *domain.MonthlyGoals
	Label string
	Prev  string
	Next  string
}

// GoalsService manages monthly goals.
type GoalsService interface {
	// ResolveKey parses a month key, mapping "current" to now's month.
	ResolveKey(key string) (hebcal.MonthKey, error)

	// Get returns the goals for a month; months never saved come back empty.
	Get(ctx context.Context, userID uuid.UUID, key string) (*GoalsView, error)

	// Save replaces the goals for a month.
	Save(ctx context.Context, userID uuid.UUID, key string, goals domain.MonthlyGoals) (*GoalsView, error)
}

type goalsService struct {
	goals  store.MonthlyGoalsStore
	loc    *time.Location
	now    func() time.Time
	logger *slog.Logger
}

// NewGoalsService creates a GoalsService evaluating "current" in loc.
func NewGoalsService(goals store.MonthlyGoalsStore, loc *time.Location, logger *slog.Logger) GoalsService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &goalsService{
		goals:  goals,
		loc:    loc,
		now:    time.Now,
		logger: logger.With(slog.String("component", "goals_service")),
	}
}

func (s *goalsService) ResolveKey(key string) (hebcal.MonthKey, error) {
	if key == "" || key == CurrentMonthKey {
		return hebcal.MonthKeyFor(s.now().In(s.loc)), nil
	}
	k, err := hebcal.ParseMonthKey(key)
	if err != nil {
		return hebcal.MonthKey{}, fmt.Errorf("%w: %v", domain.ErrInvalidFormat, err)
	}
	return k, nil
}

func (s *goalsService) Get(ctx context.Context, userID uuid.UUID, key string) (*GoalsView, error) {
	k, err := s.ResolveKey(key)
	if err != nil {
		return nil, err
	}

	goals, err := s.goals.Get(ctx, userID, k.String())
	switch {
	case errors.Is(err, store.ErrNotFound):
		goals = domain.EmptyGoals(userID, k)
	case err != nil:
		return nil, NewServiceError("goals", "get", err)
	}

	return newGoalsView(goals, k), nil
}

func (s *goalsService) Save(ctx context.Context, userID uuid.UUID, key string, goals domain.MonthlyGoals) (*GoalsView, error) {
	k, err := s.ResolveKey(key)
	if err != nil {
		return nil, err
	}

	goals.UserID = userID
	goals.MonthKey = k.String()
	goals.Normalize()
	if err := goals.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.goals.Upsert(ctx, &goals); err != nil {
		return nil, NewServiceError("goals", "save", err)
	}

	completed, total := goals.Progress()
	logger.FromContextOrDefault(ctx, s.logger).Debug("monthly goals saved",
		slog.String("user_id", userID.String()),
		slog.String("month_key", goals.MonthKey),
		slog.Int("completed", completed),
		slog.Int("total", total))
	return newGoalsView(&goals, k), nil
}

func newGoalsView(goals *domain.MonthlyGoals, k hebcal.MonthKey) *GoalsView {
	return &GoalsView{
		Goals: goals,
		Label: k.Label(),
		Prev:  k.Prev().String(),
		Next:  k.Next().String(),
	}
}
