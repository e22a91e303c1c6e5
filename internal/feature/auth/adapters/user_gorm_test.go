package adapters

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"papertrade/internal/feature/auth/domain/entity"
	"papertrade/internal/feature/auth/usecase"
)

func newUser(username string) *entity.User {
	return &entity.User{
		Username: username,
		Password: "hashed",
		Cash:     decimal.NewFromInt(100000),
	}
}

func TestUserGorm_Create(t *testing.T) {
	t.Parallel()

	t.Run("success: assigns ID and keeps cash precision", func(t *testing.T) {
		t.Parallel()

		repo := NewUserGorm(setupTestDB(t))
		u := newUser("alice")
		u.Cash = decimal.RequireFromString("99999.25")
		require.NoError(t, repo.Create(context.Background(), u))
		assert.NotZero(t, u.ID)

		found, err := repo.FindByID(context.Background(), u.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", found.Username)
		assert.True(t, found.Cash.Equal(decimal.RequireFromString("99999.25")), "cash = %s", found.Cash)
	})

	t.Run("failure: duplicate username", func(t *testing.T) {
		t.Parallel()

		repo := NewUserGorm(setupTestDB(t))
		require.NoError(t, repo.Create(context.Background(), newUser("alice")))

		err := repo.Create(context.Background(), newUser("alice"))
		assert.ErrorIs(t, err, usecase.ErrUsernameTaken)
	})
}

func TestUserGorm_Find(t *testing.T) {
	t.Parallel()

	repo := NewUserGorm(setupTestDB(t))
	u := newUser("alice")
	require.NoError(t, repo.Create(context.Background(), u))

	tests := []struct {
		name    string
		find    func() (*entity.User, error)
		wantErr error
	}{
		{"by username", func() (*entity.User, error) { return repo.FindByUsername(context.Background(), "alice") }, nil},
		{"by id", func() (*entity.User, error) { return repo.FindByID(context.Background(), u.ID) }, nil},
		{"unknown username", func() (*entity.User, error) { return repo.FindByUsername(context.Background(), "bob") }, usecase.ErrUserNotFound},
		{"unknown id", func() (*entity.User, error) { return repo.FindByID(context.Background(), 999) }, usecase.ErrUserNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := tt.find()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, found)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, u.ID, found.ID)
		})
	}
}

func TestUserGorm_UpdatePassword(t *testing.T) {
	t.Parallel()

	repo := NewUserGorm(setupTestDB(t))
	u := newUser("alice")
	require.NoError(t, repo.Create(context.Background(), u))

	require.NoError(t, repo.UpdatePassword(context.Background(), u.ID, "new-hash"))
	found, err := repo.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", found.Password)

	err = repo.UpdatePassword(context.Background(), 999, "x")
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)
}
