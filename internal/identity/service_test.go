package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/identity"
	"github.com/rpggio/pmdash/internal/repository/mocks"
	"github.com/rpggio/pmdash/internal/sqlite"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T, ttl time.Duration) *identity.Service {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	return identity.NewService(sqlite.NewUserRepository(db), "test-secret", ttl, nil)
}

func TestIdentity_SignUpSignIn(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()

	actor, err := svc.CreateUser(ctx, session.SignUpRequest{Email: "Ann@Example.com ", Password: "secret1", Name: " Ann "})
	require.NoError(t, err)
	require.Equal(t, "ann@example.com", actor.Email)
	require.Equal(t, "Ann", actor.Name)

	sess, err := svc.SignIn(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	require.NotEmpty(t, sess.AccessToken)
	require.Equal(t, actor.ID, sess.Actor.ID)
	require.False(t, sess.Actor.LastLogin.IsZero())

	resolved, err := svc.ResolveActor(ctx, sess.AccessToken)
	require.NoError(t, err)
	require.Equal(t, actor.ID, resolved.ID)

	require.NoError(t, svc.SignOut(ctx, sess.AccessToken))
}

func TestIdentity_SignInWrongPassword(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, session.SignUpRequest{Email: "ann@example.com", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, "ann@example.com", "wrong1")
	require.ErrorIs(t, err, session.ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, session.ErrInvalidCredentials)
}

func TestIdentity_CreateUserRejectsDuplicateEmail(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, session.SignUpRequest{Email: "ann@example.com", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)

	_, err = svc.CreateUser(ctx, session.SignUpRequest{Email: "ANN@example.com", Password: "other22", Name: "Ann 2"})
	require.ErrorIs(t, err, session.ErrEmailTaken)
}

func TestIdentity_CreateUserValidation(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, session.SignUpRequest{Email: "ann@example.com", Name: "Ann"})
	require.ErrorIs(t, err, identity.ErrMissingFields)

	_, err = svc.CreateUser(ctx, session.SignUpRequest{Email: "ann@example.com", Password: "SHORT1", Name: "Ann"})
	require.ErrorIs(t, err, session.ErrWeakPassword)
}

func TestIdentity_ResolveActorRejectsBadTokens(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()

	_, err := svc.ResolveActor(ctx, "garbage")
	require.ErrorIs(t, err, identity.ErrInvalidToken)

	other := newService(t, time.Hour)
	_, err = other.CreateUser(ctx, session.SignUpRequest{Email: "ann@example.com", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)
	sess, err := other.SignIn(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	// same secret, but the account doesn't exist in this store
	_, err = svc.ResolveActor(ctx, sess.AccessToken)
	require.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestIdentity_ExpiredToken(t *testing.T) {
	svc := newService(t, time.Nanosecond)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, session.SignUpRequest{Email: "ann@example.com", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)
	sess, err := svc.SignIn(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = svc.ResolveActor(ctx, sess.AccessToken)
	require.ErrorIs(t, err, identity.ErrInvalidToken)
}

func TestIdentity_UpdateUser(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()

	ann, err := svc.CreateUser(ctx, session.SignUpRequest{Email: "ann@example.com", Password: "secret1", Name: "Ann"})
	require.NoError(t, err)
	_, err = svc.CreateUser(ctx, session.SignUpRequest{Email: "bob@example.com", Password: "secret1", Name: "Bob"})
	require.NoError(t, err)

	name := "  Ann Lee "
	updated, err := svc.UpdateUser(ctx, ann.ID, session.ProfileUpdate{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Ann Lee", updated.Name)
	require.Equal(t, "ann@example.com", updated.Email)

	taken := "bob@example.com"
	_, err = svc.UpdateUser(ctx, ann.ID, session.ProfileUpdate{Email: &taken})
	require.ErrorIs(t, err, session.ErrEmailTaken)

	bad := "not-an-email"
	_, err = svc.UpdateUser(ctx, ann.ID, session.ProfileUpdate{Email: &bad})
	require.ErrorIs(t, err, session.ErrInvalidEmail)

	_, err = svc.UpdateUser(ctx, "missing", session.ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, session.ErrActorNotFound)
}

func TestIdentity_EnsureUser(t *testing.T) {
	svc := newService(t, time.Hour)
	ctx := context.Background()
	demo := session.SignUpRequest{Email: "demo@example.com", Password: "demo123", Name: "Demo User"}

	created, err := svc.EnsureUser(ctx, demo)
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.EnsureUser(ctx, demo)
	require.NoError(t, err)
	require.False(t, created)
}

func TestIdentity_SignInLookupFailure(t *testing.T) {
	ctx := context.Background()
	users := &mocks.UserRepository{}
	users.On("GetByEmail", ctx, "ann@example.com").Return(nil, context.DeadlineExceeded)

	svc := identity.NewService(users, "secret", time.Hour, nil)
	_, err := svc.SignIn(ctx, "ann@example.com", "secret1")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, session.ErrInvalidCredentials)
}
