package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/repository"
	"github.com/stretchr/testify/require"
)

func newAccount(id, email string) *session.Account {
	return &session.Account{
		Actor: session.Actor{
			ID:        id,
			Email:     email,
			Name:      "Test User",
			CreatedAt: time.Now().UTC(),
		},
		PasswordHash: "hash",
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAccount("u1", "demo@example.com")))

	byID, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "demo@example.com", byID.Email)
	require.Equal(t, "hash", byID.PasswordHash)
	require.True(t, byID.LastLogin.IsZero())

	byEmail, err := repo.GetByEmail(ctx, "demo@example.com")
	require.NoError(t, err)
	require.Equal(t, "u1", byEmail.ID)

	_, err = repo.Get(ctx, "nonexistent")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestUserRepository_UniqueEmail(t *testing.T) {
	db := NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAccount("u1", "demo@example.com")))
	err := repo.Create(ctx, newAccount("u2", "demo@example.com"))
	require.Equal(t, repository.ErrConflict, err)
}

func TestUserRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAccount("u1", "a@example.com")))
	require.NoError(t, repo.Create(ctx, newAccount("u2", "b@example.com")))

	acct, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	acct.Name = "Renamed"
	require.NoError(t, repo.Update(ctx, acct))

	acct, err = repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", acct.Name)

	acct.Email = "b@example.com"
	require.Equal(t, repository.ErrConflict, repo.Update(ctx, acct))

	require.Equal(t, repository.ErrNotFound, repo.Update(ctx, newAccount("missing", "c@example.com")))
}

func TestUserRepository_TouchLastLogin(t *testing.T) {
	db := NewTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newAccount("u1", "a@example.com")))
	require.NoError(t, repo.TouchLastLogin(ctx, "u1"))

	acct, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	require.False(t, acct.LastLogin.IsZero())

	require.Equal(t, repository.ErrNotFound, repo.TouchLastLogin(ctx, "missing"))
}
