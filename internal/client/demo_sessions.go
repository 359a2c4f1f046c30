package client

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/pmdash/internal/domain/session"
)

const demoTokenTTL = time.Hour

// demoUser is an actor record in the local container. The password is kept
// and compared as plaintext: demo mode is not a security boundary.
type demoUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

func (u demoUser) actor() session.Actor {
	return session.Actor{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}

// DemoSessions authenticates against the actor list in the local container.
type DemoSessions struct {
	state  *localState
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	current *session.Session
}

// NewDemoSessions creates a demo session adapter.
func NewDemoSessions(state *localState, logger *slog.Logger) *DemoSessions {
	return &DemoSessions{state: state, logger: logger, now: time.Now}
}

// users returns the stored actor list, or the default demo actor when
// nothing is stored yet. Callers hold state.mu.
func (s *DemoSessions) users(ctx context.Context) ([]demoUser, error) {
	var users []demoUser
	found, err := s.state.load(ctx, demoUsersKey, &users)
	if err != nil {
		return nil, err
	}
	if !found {
		now := s.now().UTC()
		users = []demoUser{{
			ID:        DemoUserID,
			Email:     DemoUserEmail,
			Name:      DemoUserName,
			Password:  DemoUserPassword,
			CreatedAt: now,
			LastLogin: now,
		}}
	}
	return users, nil
}

func (s *DemoSessions) newSession(u demoUser) *session.Session {
	return &session.Session{
		Actor:       u.actor(),
		AccessToken: "mock-access-token-" + u.ID,
		ExpiresAt:   s.now().Add(demoTokenTTL).UTC(),
	}
}

func (s *DemoSessions) setCurrent(sess *session.Session) {
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
}

// Current returns the signed-in session.
func (s *DemoSessions) Current() (*session.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	sess := *s.current
	return &sess, true
}

// SignIn matches email and password exactly against the stored actors.
func (s *DemoSessions) SignIn(ctx context.Context, email, password string) (*session.Session, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, failure(err)
	}
	idx := -1
	for i, u := range users {
		if u.Email == email && u.Password == password {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, failure(session.ErrInvalidCredentials)
	}

	users[idx].LastLogin = s.now().UTC()
	if err := s.state.save(ctx, demoUsersKey, users); err != nil {
		return nil, failure(err)
	}
	if err := s.state.save(ctx, currentDemoUserKey, users[idx].ID); err != nil {
		return nil, failure(err)
	}

	sess := s.newSession(users[idx])
	s.setCurrent(sess)
	if s.logger != nil {
		s.logger.Debug("demo sign in", slog.String("actor_id", sess.Actor.ID))
	}
	return sess, nil
}

// SignUp registers a new demo actor. It does not sign the actor in.
// A duplicate email is reported before the password policy is checked.
func (s *DemoSessions) SignUp(ctx context.Context, req session.SignUpRequest) error {
	if err := session.ValidateName(req.Name); err != nil {
		return failure(err)
	}
	if err := session.ValidateEmail(req.Email); err != nil {
		return failure(err)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return failure(err)
	}
	for _, u := range users {
		if u.Email == req.Email {
			return failure(session.ErrEmailTaken)
		}
	}
	if err := session.ValidatePassword(req.Password); err != nil {
		return failure(err)
	}

	now := s.now().UTC()
	users = append(users, demoUser{
		ID:        s.newUserID(users, now),
		Email:     req.Email,
		Name:      strings.TrimSpace(req.Name),
		Password:  req.Password,
		CreatedAt: now,
		LastLogin: now,
	})
	if err := s.state.save(ctx, demoUsersKey, users); err != nil {
		return failure(err)
	}
	return nil
}

// newUserID derives a millisecond id, bumping it past ids already taken.
func (s *DemoSessions) newUserID(users []demoUser, now time.Time) string {
	taken := make(map[string]bool, len(users))
	for _, u := range users {
		taken[u.ID] = true
	}
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("demo-user-%d", ms)
		if !taken[id] {
			return id
		}
		ms++
	}
}

// SignOut clears the session and the persisted marker.
func (s *DemoSessions) SignOut(ctx context.Context) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	s.setCurrent(nil)
	if err := s.state.remove(ctx, currentDemoUserKey); err != nil {
		return failure(err)
	}
	return nil
}

// UpdateProfile changes the current actor's name and/or email.
func (s *DemoSessions) UpdateProfile(ctx context.Context, update session.ProfileUpdate) (*session.Actor, error) {
	cur, ok := s.Current()
	if !ok {
		return nil, &Failure{Message: "No user logged in", Status: http.StatusUnauthorized, Err: session.ErrNotSignedIn}
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	users, err := s.users(ctx)
	if err != nil {
		return nil, failure(err)
	}
	idx := -1
	for i, u := range users {
		if u.ID == cur.Actor.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, failure(session.ErrActorNotFound)
	}

	if err := session.ValidateProfileUpdate(update); err != nil {
		return nil, failure(err)
	}
	if update.Email != nil && *update.Email != "" {
		for _, u := range users {
			if u.Email == *update.Email && u.ID != cur.Actor.ID {
				return nil, &Failure{Message: "Email is already taken", Status: http.StatusConflict, Err: session.ErrEmailTaken}
			}
		}
	}
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		update.Name = &trimmed
	}

	actor := users[idx].actor()
	update.Apply(&actor)
	users[idx].Name = actor.Name
	users[idx].Email = actor.Email
	if err := s.state.save(ctx, demoUsersKey, users); err != nil {
		return nil, failure(err)
	}

	s.setCurrent(s.newSession(users[idx]))
	return &actor, nil
}

// Restore signs the actor named by the persisted marker back in.
func (s *DemoSessions) Restore(ctx context.Context) (*session.Session, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	var actorID string
	found, err := s.state.load(ctx, currentDemoUserKey, &actorID)
	if err != nil {
		return nil, failure(err)
	}
	if !found {
		return nil, failure(session.ErrNotSignedIn)
	}

	users, err := s.users(ctx)
	if err != nil {
		return nil, failure(err)
	}
	for _, u := range users {
		if u.ID == actorID {
			sess := s.newSession(u)
			s.setCurrent(sess)
			return sess, nil
		}
	}

	if err := s.state.remove(ctx, currentDemoUserKey); err != nil {
		return nil, failure(err)
	}
	return nil, failure(session.ErrNotSignedIn)
}
