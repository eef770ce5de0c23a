//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/postgres"
	"github.com/yoman-app/yoman-api/internal/store"
	"github.com/yoman-app/yoman-api/internal/testdb"
)

func createUser(t *testing.T, tx *sql.Tx, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "password123")
	require.NoError(t, err)
	user.HashedPassword = "$2a$10$hash"
	user.Password = ""
	require.NoError(t, postgres.NewPostgresUserStore(tx, nil).Create(context.Background(), user))
	return user
}

func TestIntegrationUserStore(t *testing.T) {
	db := testdb.Open(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		users := postgres.NewPostgresUserStore(tx, nil)
		user := createUser(t, tx, "Integration@Example.com")

		got, err := users.GetByEmail(ctx, "integration@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.Equal(t, domain.RoleUser, got.Role)

		dup, err := domain.NewUser("integration@example.com", "password123")
		require.NoError(t, err)
		dup.HashedPassword = "$2a$10$hash"
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)

		_, err = users.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}

func TestIntegrationEntryStore(t *testing.T) {
	db := testdb.Open(t)
	loc, err := time.LoadLocation("Asia/Jerusalem")
	require.NoError(t, err)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		owner := createUser(t, tx, "owner@example.com")
		other := createUser(t, tx, "other@example.com")
		entries := postgres.NewPostgresEntryStore(tx, nil)

		at := time.Date(2026, 10, 12, 21, 30, 0, 0, loc)
		entry, err := domain.NewEntry(owner.ID, "<p>יום טוב</p>", "", at)
		require.NoError(t, err)
		require.NoError(t, entries.Create(ctx, entry))

		q := store.EntryQuery{UserID: owner.ID, From: at.AddDate(0, 0, -1), To: at.AddDate(0, 0, 1)}
		list, err := entries.List(ctx, q)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, entry.ID, list[0].ID)

		days, err := entries.Days(ctx, q, loc)
		require.NoError(t, err)
		require.Len(t, days, 1)
		assert.Equal(t, time.Date(2026, 10, 12, 0, 0, 0, 0, loc), days[0])

		_, err = entries.GetByID(ctx, other.ID, entry.ID)
		assert.ErrorIs(t, err, store.ErrEntryNotFound)
		assert.ErrorIs(t, entries.Delete(ctx, other.ID, entry.ID), store.ErrEntryNotFound)
		assert.NoError(t, entries.Delete(ctx, owner.ID, entry.ID))
	})
}
