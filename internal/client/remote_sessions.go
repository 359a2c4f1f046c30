package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/rpggio/pmdash/internal/domain/session"
)

type tokenResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresAt   int64         `json:"expires_at"`
	User        session.Actor `json:"user"`
}

type userResponse struct {
	User session.Actor `json:"user"`
}

// RemoteSessions authenticates against the identity endpoints and persists
// the session locally so later processes can restore it.
type RemoteSessions struct {
	api    *remoteAPI
	state  *localState
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *session.Session
}

// NewRemoteSessions creates a remote session adapter.
func NewRemoteSessions(api *remoteAPI, state *localState, logger *slog.Logger) *RemoteSessions {
	return &RemoteSessions{api: api, state: state, logger: logger, now: time.Now}
}

// Current returns the signed-in session.
func (s *RemoteSessions) Current() (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	sess := *s.current
	return &sess, true
}

// setCurrent replaces the in-memory session and its persisted copy.
func (s *RemoteSessions) setCurrent(ctx context.Context, sess *session.Session) error {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if sess == nil {
		return s.state.remove(ctx, remoteSessionKey)
	}
	return s.state.save(ctx, remoteSessionKey, sess)
}

// SignIn exchanges credentials for an access token.
func (s *RemoteSessions) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	var resp tokenResponse
	err := s.api.do(ctx, request{
		method:   http.MethodPost,
		path:     "/auth/v1/token",
		token:    s.api.anonKey,
		body:     map[string]string{"email": email, "password": password},
		fallback: "Invalid email or password",
		network:  "An unexpected error occurred during sign in",
	}, &resp)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("sign in failed", slog.String("error", err.Error()))
		}
		return nil, err
	}

	sess := &session.Session{
		Actor:       resp.User,
		AccessToken: resp.AccessToken,
		ExpiresAt:   time.Unix(resp.ExpiresAt, 0).UTC(),
	}
	if err := s.setCurrent(ctx, sess); err != nil {
		return nil, failure(err)
	}
	return sess, nil
}

// SignUp validates locally, then creates the account on the server.
// It does not sign the actor in.
func (s *RemoteSessions) SignUp(ctx context.Context, req session.SignUpRequest) error {
	if err := session.ValidateSignUp(req); err != nil {
		return failure(err)
	}
	err := s.api.do(ctx, request{
		method:   http.MethodPost,
		path:     "/signup",
		token:    s.api.anonKey,
		body:     req,
		fallback: "Failed to create account",
		network:  "An unexpected error occurred during signup",
	}, nil)
	if err != nil && s.logger != nil {
		s.logger.Error("signup failed", slog.String("error", err.Error()))
	}
	return err
}

// SignOut ends the session. The local session is dropped even when the
// server call fails.
func (s *RemoteSessions) SignOut(ctx context.Context) error {
	if sess, ok := s.Current(); ok {
		err := s.api.do(ctx, request{
			method:  http.MethodPost,
			path:    "/auth/v1/logout",
			token:   sess.AccessToken,
			network: "An unexpected error occurred during sign out",
		}, nil)
		if err != nil && s.logger != nil {
			s.logger.Warn("sign out failed", slog.String("error", err.Error()))
		}
	}
	if err := s.setCurrent(ctx, nil); err != nil {
		return failure(err)
	}
	return nil
}

// UpdateProfile changes the current actor's name and/or email on the server.
func (s *RemoteSessions) UpdateProfile(ctx context.Context, update session.ProfileUpdate) (*session.Actor, error) {
	sess, ok := s.Current()
	if !ok {
		return nil, &Failure{Message: "No user logged in", Status: http.StatusUnauthorized, Err: session.ErrNotSignedIn}
	}
	if err := session.ValidateProfileUpdate(update); err != nil {
		return nil, failure(err)
	}

	var resp userResponse
	err := s.api.do(ctx, request{
		method:   http.MethodPut,
		path:     "/auth/v1/user",
		token:    sess.AccessToken,
		body:     update,
		fallback: "Failed to update profile",
		network:  "An unexpected error occurred",
	}, &resp)
	if err != nil {
		return nil, err
	}

	sess.Actor = resp.User
	if err := s.setCurrent(ctx, sess); err != nil {
		return nil, failure(err)
	}
	return &resp.User, nil
}

// Restore loads the persisted session. An expired session is discarded.
func (s *RemoteSessions) Restore(ctx context.Context) (*session.Session, error) {
	var sess session.Session
	s.state.mu.Lock()
	found, err := s.state.load(ctx, remoteSessionKey, &sess)
	s.state.mu.Unlock()
	if err != nil {
		return nil, failure(err)
	}
	if !found || sess.AccessToken == "" {
		return nil, failure(session.ErrNotSignedIn)
	}
	if !sess.ExpiresAt.IsZero() && !s.now().Before(sess.ExpiresAt) {
		if err := s.setCurrent(ctx, nil); err != nil {
			return nil, failure(err)
		}
		return nil, failure(session.ErrNotSignedIn)
	}

	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return &sess, nil
}

// IsUnauthorized reports whether err is a rejected token or missing session.
func IsUnauthorized(err error) bool {
	var f *Failure
	if errors.As(err, &f) && f.Status == http.StatusUnauthorized {
		return true
	}
	return errors.Is(err, session.ErrNotSignedIn)
}
