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

// SetInput carries the editable fields of a question set.
type SetInput struct {
	Title            string
	Description      string
	ShortDescription string
	Emoji            string
	CoverImageURL    string
	Questions        domain.Questions
	Creator          *domain.Creator
	Enrichment       *domain.Enrichment
	Type             domain.SetType
	MonthKey         string
}

// SetService manages the question set catalog. Writes are admin-only; the
// API layer enforces the role.
type SetService interface {
	List(ctx context.Context) ([]*domain.QuestionSet, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.QuestionSet, error)

	// Create adds a set. At most one monthly set may exist per month key;
	// a second one fails with store.ErrMonthKeyTaken.
	Create(ctx context.Context, in SetInput) (*domain.QuestionSet, error)
	Update(ctx context.Context, id uuid.UUID, in SetInput) (*domain.QuestionSet, error)

	// Delete removes a set. Entries answering it are kept but unlinked.
	Delete(ctx context.Context, id uuid.UUID) error
}

type setService struct {
	sets   store.QuestionSetStore
	db     *sql.DB
	logger *slog.Logger
}

// NewSetService creates a SetService.
func NewSetService(sets store.QuestionSetStore, db *sql.DB, logger *slog.Logger) SetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &setService{
		sets:   sets,
		db:     db,
		logger: logger.With(slog.String("component", "set_service")),
	}
}

func (s *setService) List(ctx context.Context) ([]*domain.QuestionSet, error) {
	sets, err := s.sets.List(ctx)
	if err != nil {
		return nil, NewServiceError("set", "list", err)
	}
	return sets, nil
}

func (s *setService) Get(ctx context.Context, id uuid.UUID) (*domain.QuestionSet, error) {
	return s.sets.GetByID(ctx, id)
}

func (s *setService) Create(ctx context.Context, in SetInput) (*domain.QuestionSet, error) {
	now := time.Now().UTC()
	set := &domain.QuestionSet{ID: uuid.New(), CreatedAt: now}
	in.apply(set, now)
	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		sets := s.sets.WithTx(tx)
		if err := ensureMonthKeyFree(ctx, sets, set); err != nil {
			return err
		}
		return sets.Create(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	logger.FromContextOrDefault(ctx, s.logger).Info("question set created",
		slog.String("set_id", set.ID.String()),
		slog.String("type", string(set.Type)),
		slog.String("month_key", set.MonthKey))
	return set, nil
}

func (s *setService) Update(ctx context.Context, id uuid.UUID, in SetInput) (*domain.QuestionSet, error) {
	var set *domain.QuestionSet
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		sets := s.sets.WithTx(tx)
		var err error
		set, err = sets.GetByID(ctx, id)
		if err != nil {
			return err
		}
		in.apply(set, time.Now().UTC())
		if err := set.Validate(); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
		if err := ensureMonthKeyFree(ctx, sets, set); err != nil {
			return err
		}
		return sets.Update(ctx, set)
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	logger.FromContextOrDefault(ctx, s.logger).Info("question set updated",
		slog.String("set_id", id.String()))
	return set, nil
}

func (s *setService) Delete(ctx context.Context, id uuid.UUID) error {
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.sets.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	logger.FromContextOrDefault(ctx, s.logger).Info("question set deleted",
		slog.String("set_id", id.String()))
	return nil
}

// catalogCache is implemented by stores that cache the catalog.
type catalogCache interface {
	Invalidate(ctx context.Context)
}

// invalidate drops a cached catalog once the transaction has committed, so
// no reader caches the pre-commit state.
func (s *setService) invalidate(ctx context.Context) {
	if c, ok := s.sets.(catalogCache); ok {
		c.Invalidate(ctx)
	}
}

// ensureMonthKeyFree fails when another set already holds set's month key.
func ensureMonthKeyFree(ctx context.Context, sets store.QuestionSetStore, set *domain.QuestionSet) error {
	if !set.IsMonthly() {
		return nil
	}
	existing, err := sets.GetMonthly(ctx, set.MonthKey)
	switch {
	case errors.Is(err, store.ErrSetNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != set.ID:
		return fmt.Errorf("%w: %s", store.ErrMonthKeyTaken, set.MonthKey)
	}
	return nil
}

func (in SetInput) apply(set *domain.QuestionSet, now time.Time) {
	set.Title = strings.TrimSpace(in.Title)
	set.Description = strings.TrimSpace(in.Description)
	set.ShortDescription = strings.TrimSpace(in.ShortDescription)
	set.Emoji = strings.TrimSpace(in.Emoji)
	set.CoverImageURL = strings.TrimSpace(in.CoverImageURL)
	set.Questions = in.Questions
	set.Creator = in.Creator
	set.Enrichment = in.Enrichment
	set.Type = in.Type
	if set.Type == "" {
		set.Type = domain.SetTypeCurated
	}
	set.MonthKey = strings.TrimSpace(in.MonthKey)
	set.UpdatedAt = now
}
