package postgres

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-directory/internal/domain/entity"
	"github.com/oksasatya/go-user-directory/internal/domain/repository"
)

// newTestStore connects to TEST_DATABASE_URL, applies migrations and empties
// the users table. The test is skipped when the variable is unset.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	require.NoError(t, RunMigrations(dsn, "../../../db/migrations", logger))

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, 4, 1, time.Minute)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `TRUNCATE users RESTART IDENTITY`)
	require.NoError(t, err)

	s := NewStore(pool)
	t.Cleanup(s.Close)
	return s
}

func TestUserRepository_CRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	repo := s.Users()

	email := "a@x.com"
	u := &entity.User{Name: "Alice", Email: &email, Age: 30, PasswordHash: "$2a$04$hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)
	require.NotNil(t, got.Email)
	assert.Equal(t, email, *got.Email)
	assert.Equal(t, 30, got.Age)

	got.Age = 31
	got.Email = nil
	require.NoError(t, repo.Update(ctx, got))

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 31, all[0].Age)
	assert.Nil(t, all[0].Email)

	deleted, err := repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", deleted.Name)

	_, err = repo.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = repo.Delete(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, got), repository.ErrNotFound)
}

func TestStore_WithinTxRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &entity.User{Name: "Bob", Age: 40, PasswordHash: "$2a$04$hash"}
	require.NoError(t, s.Users().Create(ctx, u))

	boom := assert.AnError
	err := s.WithinTx(ctx, func(repo repository.UserRepository) error {
		locked, err := repo.GetByID(ctx, u.ID)
		if err != nil {
			return err
		}
		locked.Name = "Robert"
		if err := repo.Update(ctx, locked); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob", got.Name)
}
