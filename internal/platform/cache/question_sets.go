package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/store"
)

// CatalogKey is the Redis key holding the serialized catalog.
const CatalogKey = "yoman:catalog:v1"

// CachedSetStore decorates a store.QuestionSetStore with a Redis copy of the
// whole catalog. Reads of the catalog and of single sets are served from the
// copy; every write drops it. Redis failures fall back to the inner store.
type CachedSetStore struct {
	inner  store.QuestionSetStore
	client Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedSetStore wraps inner. A non-positive ttl means five minutes.
func NewCachedSetStore(inner store.QuestionSetStore, client Client, ttl time.Duration, logger *slog.Logger) *CachedSetStore {
	if inner == nil || client == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("inner store and redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedSetStore{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With(slog.String("component", "catalog_cache")),
	}
}

var _ store.QuestionSetStore = (*CachedSetStore)(nil)

// List implements store.QuestionSetStore.List
func (c *CachedSetStore) List(ctx context.Context) ([]*domain.QuestionSet, error) {
	log := logger.FromContextOrDefault(ctx, c.logger)

	raw, err := c.client.Get(ctx, CatalogKey).Bytes()
	switch {
	case err == nil:
		var sets []*domain.QuestionSet
		jsonErr := json.Unmarshal(raw, &sets)
		if jsonErr == nil {
			return sets, nil
		}
		log.Warn("discarding undecodable catalog cache", slog.String("error", jsonErr.Error()))
	case errors.Is(err, redis.Nil):
	default:
		log.Warn("catalog cache read failed", slog.String("error", err.Error()))
	}

	sets, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(sets); err == nil {
		if err := c.client.Set(ctx, CatalogKey, encoded, c.ttl).Err(); err != nil {
			log.Warn("catalog cache write failed", slog.String("error", err.Error()))
		}
	}
	return sets, nil
}

// GetByID implements store.QuestionSetStore.GetByID
func (c *CachedSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionSet, error) {
	sets, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sets {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, store.ErrSetNotFound
}

// GetMonthly implements store.QuestionSetStore.GetMonthly
func (c *CachedSetStore) GetMonthly(ctx context.Context, monthKey string) (*domain.QuestionSet, error) {
	sets, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range sets {
		if s.IsMonthly() && s.MonthKey == monthKey {
			return s, nil
		}
	}
	return nil, store.ErrSetNotFound
}

// Create implements store.QuestionSetStore.Create
func (c *CachedSetStore) Create(ctx context.Context, set *domain.QuestionSet) error {
	defer c.Invalidate(ctx)
	return c.inner.Create(ctx, set)
}

// Update implements store.QuestionSetStore.Update
func (c *CachedSetStore) Update(ctx context.Context, set *domain.QuestionSet) error {
	defer c.Invalidate(ctx)
	return c.inner.Update(ctx, set)
}

// Delete implements store.QuestionSetStore.Delete
func (c *CachedSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	defer c.Invalidate(ctx)
	return c.inner.Delete(ctx, id)
}

// WithTx implements store.QuestionSetStore.WithTx. Reads inside a
// transaction bypass the cache; writes still drop it.
func (c *CachedSetStore) WithTx(tx *sql.Tx) store.QuestionSetStore {
	return &txSetStore{QuestionSetStore: c.inner.WithTx(tx), cache: c}
}

// Invalidate drops the cached catalog. Callers that write inside a
// transaction call it again after commit.
func (c *CachedSetStore) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, CatalogKey).Err(); err != nil {
		logger.FromContextOrDefault(ctx, c.logger).Warn("catalog cache invalidation failed",
			slog.String("error", err.Error()))
	}
}

type txSetStore struct {
	store.QuestionSetStore
	cache *CachedSetStore
}

func (t *txSetStore) Create(ctx context.Context, set *domain.QuestionSet) error {
	defer t.cache.Invalidate(ctx)
	return t.QuestionSetStore.Create(ctx, set)
}

func (t *txSetStore) Update(ctx context.Context, set *domain.QuestionSet) error {
	defer t.cache.Invalidate(ctx)
	return t.QuestionSetStore.Update(ctx, set)
}

func (t *txSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	defer t.cache.Invalidate(ctx)
	return t.QuestionSetStore.Delete(ctx, id)
}
