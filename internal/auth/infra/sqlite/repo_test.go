package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/danipaBernales/modern-ecommerce/internal/auth/app"
	storedb "github.com/danipaBernales/modern-ecommerce/pkg/sqlite"
)

func openTestRepo(t *testing.T) *Repo {
	t.Helper()
	db, err := storedb.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db)
}

func TestCreateAlsoCreatesProfileRow(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	user, err := repo.Create(ctx, "a@example.com", "tester", "hash")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)

	profile, err := repo.ByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, profile.ID)
	require.Equal(t, "tester", profile.Username)
}

func TestByEmail(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, "a@example.com", "tester", "hash")
	require.NoError(t, err)

	user, hash, err := repo.ByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, created.ID, user.ID)
	require.Equal(t, "hash", hash)

	_, _, err = repo.ByEmail(ctx, "nobody@example.com")
	require.ErrorIs(t, err, app.ErrNotFound)
}

func TestUsernameTaken(t *testing.T) {
	repo := openTestRepo(t)
	ctx := context.Background()

	taken, err := repo.UsernameTaken(ctx, "tester")
	require.NoError(t, err)
	require.False(t, taken)

	_, err = repo.Create(ctx, "a@example.com", "tester", "hash")
	require.NoError(t, err)

	taken, err = repo.UsernameTaken(ctx, "tester")
	require.NoError(t, err)
	require.True(t, taken)
}

func TestByUserIDMissingProfile(t *testing.T) {
	repo := openTestRepo(t)

	_, err := repo.ByUserID(context.Background(), "no-such-user")
	require.ErrorIs(t, err, app.ErrNotFound)
}
