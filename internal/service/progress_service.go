package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/domain/progress"
	"github.com/yoman-app/yoman-api/internal/metrics"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/store"
)

// TodayView is what the home screen shows for the current day.
type TodayView struct {
	Set        *domain.QuestionSet
	Pointer    *domain.ActiveSetPointer
	Source     progress.Source
	Index      int
	Question   domain.Question
	Answer     *domain.Entry
	HebrewDate string
	MonthKey   string
	Date       time.Time
}

// ProgressService is the user side of question sets: which set is active,
// today's question, and joining or declining sets.
type ProgressService interface {
	// Today resolves the effective set and today's question for the user.
	Today(ctx context.Context, userID uuid.UUID) (*TodayView, error)

	// Register clears any decline of the set and points the user at its
	// first question.
	Register(ctx context.Context, userID, setID uuid.UUID) (*domain.ActiveSetPointer, error)

	// OptOut declines a monthly set and clears the pointer if it pointed at it.
	OptOut(ctx context.Context, userID, setID uuid.UUID) error

	// OptIn removes the decline and starts the set.
	OptIn(ctx context.Context, userID, setID uuid.UUID) (*domain.ActiveSetPointer, error)
}

type progressService struct {
	users    store.UserStore
	sets     store.QuestionSetStore
	entries  store.EntryStore
	resolver progress.Service
	db       *sql.DB
	now      func() time.Time
	logger   *slog.Logger
}

// NewProgressService creates a ProgressService.
func NewProgressService(
	users store.UserStore,
	sets store.QuestionSetStore,
	entries store.EntryStore,
	resolver progress.Service,
	db *sql.DB,
	logger *slog.Logger,
) ProgressService {
	if logger == nil {
		logger = slog.Default()
	}
	return &progressService{
		users:    users,
		sets:     sets,
		entries:  entries,
		resolver: resolver,
		db:       db,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "progress_service")),
	}
}

func (s *progressService) Today(ctx context.Context, userID uuid.UUID) (*TodayView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.sets.List(ctx)
	if err != nil {
		return nil, NewServiceError("progress", "today", err)
	}

	now := s.now().In(s.resolver.Location())
	today := s.resolver.Today(user.ActiveSet, catalog, user.OptOuts, now)
	source := today.Resolution.Source()
	metrics.ObserveResolution(string(source))

	view := &TodayView{
		Set:        today.Resolution.Set,
		Pointer:    today.Resolution.Pointer,
		Source:     source,
		Index:      today.Index,
		Question:   today.Question,
		HebrewDate: today.HebrewDate,
		MonthKey:   today.MonthKey.String(),
		Date:       now,
	}

	if view.Question != nil {
		start, end := dayBounds(now)
		answer, err := s.entries.FindAnswer(ctx, userID, view.Set.ID, view.Index, start, end)
		switch {
		case err == nil:
			view.Answer = answer
		case !errors.Is(err, store.ErrEntryNotFound):
			return nil, NewServiceError("progress", "today", err)
		}
	}

	return view, nil
}

func (s *progressService) Register(ctx context.Context, userID, setID uuid.UUID) (*domain.ActiveSetPointer, error) {
	return s.start(ctx, "register", userID, setID)
}

func (s *progressService) OptIn(ctx context.Context, userID, setID uuid.UUID) (*domain.ActiveSetPointer, error) {
	return s.start(ctx, "opt_in", userID, setID)
}

func (s *progressService) start(ctx context.Context, op string, userID, setID uuid.UUID) (*domain.ActiveSetPointer, error) {
	pointer := domain.StartSet(setID, s.now().UTC())

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := s.sets.WithTx(tx).GetByID(ctx, setID); err != nil {
			return err
		}
		users := s.users.WithTx(tx)
		if err := users.RemoveOptOut(ctx, userID, setID); err != nil {
			return err
		}
		return users.SetActiveSet(ctx, userID, pointer)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("set started",
		slog.String("op", op),
		slog.String("user_id", userID.String()),
		slog.String("set_id", setID.String()))
	return pointer, nil
}

func (s *progressService) OptOut(ctx context.Context, userID, setID uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		set, err := s.sets.WithTx(tx).GetByID(ctx, setID)
		if err != nil {
			return err
		}
		if !set.IsMonthly() {
			return fmt.Errorf("%w: %s", ErrNotMonthlySet, setID)
		}

		users := s.users.WithTx(tx)
		user, err := users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := users.AddOptOut(ctx, userID, setID); err != nil {
			return err
		}
		if user.ActiveSet.PointsAt(setID) {
			return users.SetActiveSet(ctx, userID, nil)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("monthly set declined",
		slog.String("user_id", userID.String()),
		slog.String("set_id", setID.String()))
	return nil
}

// dayBounds returns the local midnights around t.
func dayBounds(t time.Time) (start, end time.Time) {
	y, m, d := t.Date()
	start = time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
