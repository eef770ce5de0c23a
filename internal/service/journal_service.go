package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/store"
)

// EntryInput carries the editable fields of a free-form entry. A nil Date
// means now.
type EntryInput struct {
	Text        string
	ImageURL    string
	Date        *time.Time
	EnergyLevel int
}

// AnswerResult is the outcome of answering a set question.
type AnswerResult struct {
	Entry   *domain.Entry
	Pointer *domain.ActiveSetPointer
	// Completed is true when the answered question was the last one.
	Completed bool
}

// JournalService manages diary entries.
type JournalService interface {
	Create(ctx context.Context, userID uuid.UUID, in EntryInput) (*domain.Entry, error)
	Get(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	Update(ctx context.Context, userID, entryID uuid.UUID, in EntryInput) (*domain.Entry, error)
	Delete(ctx context.Context, userID, entryID uuid.UUID) error
	Archive(ctx context.Context, userID, entryID uuid.UUID, archived bool) (*domain.Entry, error)

	// ListMonth returns the entries of a Gregorian month, newest first.
	ListMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month, includeArchived bool) ([]*domain.Entry, error)

	// ListRange returns the entries in [from, to), newest first.
	ListRange(ctx context.Context, userID uuid.UUID, from, to time.Time, includeArchived bool) ([]*domain.Entry, error)

	// EntryDays returns the local dates in [from, to) that have entries.
	EntryDays(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]time.Time, error)

	// AnswerQuestion saves the answer to question index of a set and moves the
	// user's pointer past it, in one transaction. A second answer on the same
	// day replaces the first.
	AnswerQuestion(ctx context.Context, userID, setID uuid.UUID, index int, text string) (*AnswerResult, error)
}

type journalService struct {
	users   store.UserStore
	sets    store.QuestionSetStore
	entries store.EntryStore
	db      *sql.DB
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger
}

// NewJournalService creates a JournalService evaluating days in loc.
func NewJournalService(
	users store.UserStore,
	sets store.QuestionSetStore,
	entries store.EntryStore,
	db *sql.DB,
	loc *time.Location,
	logger *slog.Logger,
) JournalService {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &journalService{
		users:   users,
		sets:    sets,
		entries: entries,
		db:      db,
		loc:     loc,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "journal_service")),
	}
}

func (s *journalService) Create(ctx context.Context, userID uuid.UUID, in EntryInput) (*domain.Entry, error) {
	at := s.now().In(s.loc)
	if in.Date != nil {
		at = in.Date.In(s.loc)
	}

	entry, err := domain.NewEntry(userID, in.Text, in.ImageURL, at)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	entry.EnergyLevel = in.EnergyLevel
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if err := s.entries.Create(ctx, entry); err != nil {
		return nil, NewServiceError("journal", "create", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("entry created",
		slog.String("user_id", userID.String()),
		slog.String("entry_id", entry.ID.String()))
	return entry, nil
}

func (s *journalService) Get(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	return s.entries.GetByID(ctx, userID, entryID)
}

func (s *journalService) Update(ctx context.Context, userID, entryID uuid.UUID, in EntryInput) (*domain.Entry, error) {
	return s.modify(ctx, "update", userID, entryID, func(e *domain.Entry) {
		e.Text = in.Text
		e.ImageURL = strings.TrimSpace(in.ImageURL)
		e.EnergyLevel = in.EnergyLevel
		if in.Date != nil {
			e.Date = in.Date.In(s.loc)
		}
	})
}

func (s *journalService) Archive(ctx context.Context, userID, entryID uuid.UUID, archived bool) (*domain.Entry, error) {
	return s.modify(ctx, "archive", userID, entryID, func(e *domain.Entry) {
		e.Archived = archived
	})
}

func (s *journalService) modify(
	ctx context.Context,
	op string,
	userID, entryID uuid.UUID,
	change func(*domain.Entry),
) (*domain.Entry, error) {
	var entry *domain.Entry
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		entries := s.entries.WithTx(tx)
		var err error
		entry, err = entries.GetByID(ctx, userID, entryID)
		if err != nil {
			return err
		}
		change(entry)
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		return entries.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Debug("entry modified",
		slog.String("op", op),
		slog.String("entry_id", entryID.String()))
	return entry, nil
}

func (s *journalService) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	return s.entries.Delete(ctx, userID, entryID)
}

func (s *journalService) ListMonth(
	ctx context.Context,
	userID uuid.UUID,
	year int,
	month time.Month,
	includeArchived bool,
) ([]*domain.Entry, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", domain.ErrValidation, month)
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, s.loc)
	return s.ListRange(ctx, userID, from, from.AddDate(0, 1, 0), includeArchived)
}

func (s *journalService) ListRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
	includeArchived bool,
) ([]*domain.Entry, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: empty date range", domain.ErrValidation)
	}
	entries, err := s.entries.List(ctx, store.EntryQuery{
		UserID:          userID,
		From:            from,
		To:              to,
		IncludeArchived: includeArchived,
	})
	if err != nil {
		return nil, NewServiceError("journal", "list", err)
	}
	return entries, nil
}

func (s *journalService) EntryDays(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	if !from.Before(to) {
		return nil, fmt.Errorf("%w: empty date range", domain.ErrValidation)
	}
	days, err := s.entries.Days(ctx, store.EntryQuery{UserID: userID, From: from, To: to}, s.loc)
	if err != nil {
		return nil, NewServiceError("journal", "days", err)
	}
	return days, nil
}

func (s *journalService) AnswerQuestion(
	ctx context.Context,
	userID, setID uuid.UUID,
	index int,
	text string,
) (*AnswerResult, error) {
	now := s.now().In(s.loc)
	dayStart, dayEnd := dayBounds(now)
	result := &AnswerResult{}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		users := s.users.WithTx(tx)
		entries := s.entries.WithTx(tx)

		// Concurrent answers by the same user wait here, so the lookup below
		// sees a committed same-day answer instead of inserting a second one.
		user, err := users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		set, err := s.sets.WithTx(tx).GetByID(ctx, setID)
		if err != nil {
			return err
		}
		if index < 0 || index >= set.Total() {
			return fmt.Errorf("%w: %d of %d", ErrQuestionOutOfRange, index, set.Total())
		}

		entry, err := entries.FindAnswer(ctx, userID, setID, index, dayStart, dayEnd)
		switch {
		case err == nil:
			entry.Text = text
			if q := set.Questions.At(index); q != nil {
				entry.QuestionText = q.Prompt()
			}
			if err := entry.Validate(); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			if err := entries.Update(ctx, entry); err != nil {
				return err
			}
		case errors.Is(err, store.ErrEntryNotFound):
			entry, err = domain.NewAnswerEntry(userID, set, index, text, now)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrValidation, err)
			}
			if err := entries.Create(ctx, entry); err != nil {
				return err
			}
		default:
			return err
		}

		// Answering makes the set the explicit one. An implicit monthly
		// pointer or a switch from another set starts the clock now.
		base := domain.StartSet(setID, now.UTC())
		if user.ActiveSet.PointsAt(setID) {
			base = user.ActiveSet
		}
		pointer := base.Advance(index, set.Total())
		if err := users.SetActiveSet(ctx, userID, pointer); err != nil {
			return err
		}

		result.Entry = entry
		result.Pointer = pointer
		result.Completed = index >= set.Total()-1
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("set question answered",
		slog.String("user_id", userID.String()),
		slog.String("set_id", setID.String()),
		slog.Int("index", index),
		slog.Int("next_index", result.Pointer.CurrentQuestionIndex))
	return result, nil
}
