package client

import (
	"context"

	"github.com/rpggio/pmdash/internal/domain/preference"
)

// DemoPreferences stores the preferences document in the local container.
type DemoPreferences struct {
	state    *localState
	sessions Current
}

// NewDemoPreferences creates a demo preference store.
func NewDemoPreferences(state *localState, sessions Current) *DemoPreferences {
	return &DemoPreferences{state: state, sessions: sessions}
}

func (s *DemoPreferences) Get(ctx context.Context) (preference.Preferences, error) {
	actor, err := currentActor(s.sessions)
	if err != nil {
		return nil, err
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	var prefs preference.Preferences
	found, err := s.state.load(ctx, demoPreferencesKey(actor.ID), &prefs)
	if err != nil {
		return nil, failure(err)
	}
	if !found || prefs == nil {
		return preference.Default(), nil
	}
	return prefs, nil
}

func (s *DemoPreferences) Save(ctx context.Context, prefs preference.Preferences) (preference.Preferences, error) {
	actor, err := currentActor(s.sessions)
	if err != nil {
		return nil, err
	}
	if err := preference.Validate(prefs); err != nil {
		return nil, failure(err)
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if err := s.state.save(ctx, demoPreferencesKey(actor.ID), prefs); err != nil {
		return nil, failure(err)
	}
	return prefs, nil
}
