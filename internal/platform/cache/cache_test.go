package cache

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/store"
)

// stubSetStore counts List calls and records writes.
type stubSetStore struct {
	sets      []*domain.QuestionSet
	listCalls int
	listErr   error
	writeErr  error
	writes    int
}

func (s *stubSetStore) Create(ctx context.Context, set *domain.QuestionSet) error {
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	s.sets = append(s.sets, set)
	return nil
}

func (s *stubSetStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuestionSet, error) {
	return nil, store.ErrSetNotFound
}

func (s *stubSetStore) GetMonthly(ctx context.Context, monthKey string) (*domain.QuestionSet, error) {
	return nil, store.ErrSetNotFound
}

func (s *stubSetStore) List(ctx context.Context) ([]*domain.QuestionSet, error) {
	s.listCalls++
	return s.sets, s.listErr
}

func (s *stubSetStore) Update(ctx context.Context, set *domain.QuestionSet) error {
	s.writes++
	return s.writeErr
}

func (s *stubSetStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.writes++
	return s.writeErr
}

func (s *stubSetStore) WithTx(tx *sql.Tx) store.QuestionSetStore { return s }

func mustSet(t *testing.T, title string, setType domain.SetType, key string) *domain.QuestionSet {
	t.Helper()
	set, err := domain.NewQuestionSet(title, setType, key, domain.Questions{
		domain.NewQuestion("מה שימח אותי היום?", ""),
		domain.NewQuestion("על מה אני מודה?", "https://cdn.example/q2.png"),
	})
	require.NoError(t, err)
	return set
}

func TestCachedSetStoreReadThrough(t *testing.T) {
	ctx := context.Background()
	curated := mustSet(t, "הודיה", domain.SetTypeCurated, "")
	monthly := mustSet(t, "חשוון", domain.SetTypeMonthly, "5787-08")
	inner := &stubSetStore{sets: []*domain.QuestionSet{curated, monthly}}
	client := newFakeClient()
	c := NewCachedSetStore(inner, client, time.Minute, nil)

	first, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, time.Minute, client.ttls[CatalogKey])

	second, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.listCalls, "second read is served from redis")
	require.Len(t, second, 2)
	assert.Equal(t, "https://cdn.example/q2.png", second[0].Questions[1].Image())

	got, err := c.GetMonthly(ctx, "5787-08")
	require.NoError(t, err)
	assert.Equal(t, monthly.ID, got.ID)

	got, err = c.GetByID(ctx, curated.ID)
	require.NoError(t, err)
	assert.Equal(t, "הודיה", got.Title)

	_, err = c.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrSetNotFound)
	assert.Equal(t, 1, inner.listCalls)
}

func TestCachedSetStoreWritesInvalidate(t *testing.T) {
	ctx := context.Background()
	inner := &stubSetStore{}
	client := newFakeClient()
	c := NewCachedSetStore(inner, client, 0, nil)

	_, err := c.List(ctx)
	require.NoError(t, err)
	require.True(t, client.has(CatalogKey))

	require.NoError(t, c.Create(ctx, mustSet(t, "חדש", domain.SetTypeCurated, "")))
	assert.False(t, client.has(CatalogKey))

	sets, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sets, 1)

	inner.writeErr = store.ErrMonthKeyTaken
	err = c.WithTx(nil).Update(ctx, mustSet(t, "כפול", domain.SetTypeMonthly, "5787-08"))
	assert.ErrorIs(t, err, store.ErrMonthKeyTaken)
	assert.False(t, client.has(CatalogKey), "failed writes still drop the copy")
}

func TestCachedSetStoreFallsBackWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	inner := &stubSetStore{sets: []*domain.QuestionSet{mustSet(t, "הודיה", domain.SetTypeCurated, "")}}
	client := newFakeClient()
	client.failWith = errRedisDown
	c := NewCachedSetStore(inner, client, time.Minute, nil)

	sets, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, sets, 1)

	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.listCalls)

	require.NoError(t, c.Delete(ctx, uuid.New()))
}

func TestCachedSetStorePropagatesStoreErrors(t *testing.T) {
	inner := &stubSetStore{listErr: errors.New("db down")}
	c := NewCachedSetStore(inner, newFakeClient(), time.Minute, nil)

	_, err := c.List(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestDeduperOnce(t *testing.T) {
	ctx := context.Background()
	client := newFakeClient()
	d := NewDeduper(client, "yoman:sent:")

	calls := 0
	fn := func() error { calls++; return nil }

	ran, err := d.Once(ctx, "u1:daily:2026-10-12", time.Hour, fn)
	require.NoError(t, err)
	assert.True(t, ran)

	ran, err = d.Once(ctx, "u1:daily:2026-10-12", time.Hour, fn)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 1, calls)
	assert.Equal(t, time.Hour, client.ttls["yoman:sent:u1:daily:2026-10-12"])

	t.Run("failure releases the claim", func(t *testing.T) {
		sendErr := errors.New("broker unavailable")
		ran, err := d.Once(ctx, "u2:daily:2026-10-12", time.Hour, func() error { return sendErr })
		assert.True(t, ran)
		assert.ErrorIs(t, err, sendErr)
		assert.False(t, client.has("yoman:sent:u2:daily:2026-10-12"))

		ran, err = d.Once(ctx, "u2:daily:2026-10-12", time.Hour, fn)
		require.NoError(t, err)
		assert.True(t, ran)
	})

	t.Run("redis error", func(t *testing.T) {
		broken := newFakeClient()
		broken.failWith = errRedisDown
		ran, err := NewDeduper(broken, "p:").Once(ctx, "k", time.Hour, fn)
		assert.False(t, ran)
		assert.ErrorIs(t, err, errRedisDown)
	})
}
