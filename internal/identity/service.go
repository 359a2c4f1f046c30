// Package identity is the built-in account service: password sign-in,
// bearer access tokens and profile updates.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/repository"
)

// DefaultTokenTTL is used when no token lifetime is configured.
const DefaultTokenTTL = time.Hour

// Service issues and verifies access tokens for stored accounts.
type Service struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new identity service.
func NewService(users repository.UserRepository, secret string, ttl time.Duration, logger *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// CreateUser registers a confirmed account.
func (s *Service) CreateUser(ctx context.Context, req session.SignUpRequest) (*session.Actor, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" || strings.TrimSpace(req.Name) == "" {
		return nil, ErrMissingFields
	}
	req.Email = session.NormalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	if err := session.ValidateSignUp(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := &session.Account{
		Actor: session.Actor{
			ID:        uuid.NewString(),
			Email:     req.Email,
			Name:      req.Name,
			CreatedAt: s.now().UTC(),
		},
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, acct); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, session.ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("user created", slog.String("email", acct.Email))
	}
	return &acct.Actor, nil
}

// SignIn checks the password and returns a session with a fresh access token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	acct, err := s.users.GetByEmail(ctx, session.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, session.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, session.ErrInvalidCredentials
	}

	now := s.now()
	if err := s.users.TouchLastLogin(ctx, acct.ID); err != nil {
		return nil, fmt.Errorf("recording login: %w", err)
	}
	acct.LastLogin = now.UTC()

	token, expiresAt, err := s.issueToken(acct.ID, acct.Email, now)
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("user signed in", slog.String("email", acct.Email))
	}
	return &session.Session{Actor: acct.Actor, AccessToken: token, ExpiresAt: expiresAt}, nil
}

// ResolveActor returns the actor an access token was issued to.
func (s *Service) ResolveActor(ctx context.Context, token string) (*session.Actor, error) {
	actorID, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	acct, err := s.users.Get(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &acct.Actor, nil
}

// UpdateUser changes the actor's name and/or email.
func (s *Service) UpdateUser(ctx context.Context, actorID string, update session.ProfileUpdate) (*session.Actor, error) {
	if err := session.ValidateProfileUpdate(update); err != nil {
		return nil, err
	}
	acct, err := s.users.Get(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, session.ErrActorNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		update.Name = &trimmed
	}
	if update.Email != nil {
		normalized := session.NormalizeEmail(*update.Email)
		update.Email = &normalized
	}
	update.Apply(&acct.Actor)

	if err := s.users.Update(ctx, acct); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, session.ErrEmailTaken
		}
		return nil, fmt.Errorf("updating user: %w", err)
	}
	return &acct.Actor, nil
}

// SignOut ends a session. Tokens are stateless, so this only validates the
// token; it stays usable until it expires.
func (s *Service) SignOut(ctx context.Context, token string) error {
	_, err := s.parseToken(token)
	return err
}

// EnsureUser creates the account unless one with the same email exists.
// It reports whether an account was created.
func (s *Service) EnsureUser(ctx context.Context, req session.SignUpRequest) (bool, error) {
	_, err := s.users.GetByEmail(ctx, session.NormalizeEmail(req.Email))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return false, fmt.Errorf("getting user: %w", err)
	}
	if _, err := s.CreateUser(ctx, req); err != nil {
		return false, err
	}
	return true, nil
}
