package repository

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/quran-reader-bot/internal/domain/entities"
	"github.com/aliskhannn/quran-reader-bot/internal/infra/postgres"
	"github.com/aliskhannn/quran-reader-bot/internal/storage"
)

// newTestPool connects to TEST_DATABASE_URL or skips the test.
func newTestPool(t *testing.T) postgres.DBTX {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{MaxConns: 2})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

func TestKVRepository(t *testing.T) {
	db := newTestPool(t)
	ctx := context.Background()
	repo := NewKVRepository(db)

	key := "test:" + t.Name()
	t.Cleanup(func() { _ = repo.Remove(ctx, key) })

	_, err := repo.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, repo.Set(ctx, key, `{"fontSize":32}`))
	require.NoError(t, repo.Set(ctx, key, `{"fontSize":34}`))

	v, err := repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, `{"fontSize":34}`, v)

	require.NoError(t, repo.Remove(ctx, key))
	_, err = repo.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestUserRepository(t *testing.T) {
	db := newTestPool(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	const userID = int64(-424242)
	t.Cleanup(func() { _, _ = db.Exec(ctx, "DELETE FROM users WHERE id = $1", userID) })

	_, err := repo.Save(ctx, entities.NewUser(userID, 1001))
	require.NoError(t, err)

	created, err := repo.Save(ctx, entities.NewUser(userID, 1002))
	require.NoError(t, err)
	assert.False(t, created)

	u, err := repo.GetByID(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1002), u.ChatID)
	assert.True(t, u.IsActive)

	require.NoError(t, repo.Deactivate(ctx, userID))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	for _, a := range active {
		assert.NotEqual(t, userID, a.ID)
	}

	_, err = repo.GetByID(ctx, -1)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
