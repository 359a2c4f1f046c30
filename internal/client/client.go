// Package client holds the dashboard's persistence adapters. Each adapter has
// a demo implementation backed by a local KV container and a remote
// implementation talking to the pmdash API. The mode is chosen once by New.
package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/pmdash/internal/config"
	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/repository"
	"github.com/rpggio/pmdash/internal/sqlite"
)

// RecordStore persists the current actor's projects.
type RecordStore interface {
	List(ctx context.Context) ([]project.Project, error)
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// SessionAdapter signs actors in and out and keeps the current session.
type SessionAdapter interface {
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	SignUp(ctx context.Context, req session.SignUpRequest) error
	SignOut(ctx context.Context) error
	UpdateProfile(ctx context.Context, update session.ProfileUpdate) (*session.Actor, error)
	// Restore reloads a session persisted by an earlier process.
	Restore(ctx context.Context) (*session.Session, error)
	Current() (*session.Session, bool)
}

// PreferenceStore persists the current actor's preferences document.
type PreferenceStore interface {
	Get(ctx context.Context) (preference.Preferences, error)
	Save(ctx context.Context, prefs preference.Preferences) (preference.Preferences, error)
}

// Current exposes the signed-in session to the stores.
type Current interface {
	Current() (*session.Session, bool)
}

// Client bundles the adapters for one mode.
type Client struct {
	Sessions    SessionAdapter
	Projects    RecordStore
	Preferences PreferenceStore
	Demo        bool

	closeFn func() error
}

// Close releases the local container.
func (c *Client) Close() error {
	if c.closeFn == nil {
		return nil
	}
	return c.closeFn()
}

// New opens the local container at cfg.StatePath and builds the adapters.
// An empty backend URL selects demo mode.
func New(ctx context.Context, cfg config.ClientConfig, logger *slog.Logger) (*Client, error) {
	db, err := openState(cfg.StatePath)
	if err != nil {
		return nil, err
	}
	c := NewWithStore(cfg, sqlite.NewKVStore(db), logger)
	c.closeFn = db.Close

	if _, err := c.Sessions.Restore(ctx); err != nil && !errors.Is(err, session.ErrNotSignedIn) {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// NewWithStore builds the adapters on an existing local container.
func NewWithStore(cfg config.ClientConfig, local repository.KVStore, logger *slog.Logger) *Client {
	state := newLocalState(local)
	if cfg.DemoMode() {
		sessions := NewDemoSessions(state, logger)
		return &Client{
			Sessions:    sessions,
			Projects:    NewDemoProjects(state, sessions, logger),
			Preferences: NewDemoPreferences(state, sessions),
			Demo:        true,
		}
	}

	api := newRemoteAPI(cfg.BackendURL, cfg.AnonKey, cfg.Timeout)
	sessions := NewRemoteSessions(api, state, logger)
	return &Client{
		Sessions:    sessions,
		Projects:    NewRemoteProjects(api, sessions, logger),
		Preferences: NewRemotePreferences(api, sessions),
	}
}

func openState(path string) (*sqlite.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create state directory: %w", err)
		}
	}
	db, err := sqlite.New(path)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func currentActor(cur Current) (*session.Actor, error) {
	sess, ok := cur.Current()
	if !ok {
		return nil, &Failure{Message: "User not authenticated", Err: session.ErrNotSignedIn}
	}
	return &sess.Actor, nil
}

func currentSession(cur Current) (*session.Session, error) {
	sess, ok := cur.Current()
	if !ok {
		return nil, &Failure{Message: "User not authenticated", Err: session.ErrNotSignedIn}
	}
	return sess, nil
}
