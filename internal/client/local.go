package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rpggio/pmdash/internal/repository"
)

// Keys in the local container.
const (
	demoUsersKey         = "dashboard-demo-users"
	currentDemoUserKey   = "dashboard-current-demo-user"
	remoteSessionKey     = "dashboard-remote-session"
	demoProjectsPrefix   = "dashboard-demo-projects-"
	demoPreferencePrefix = "dashboard-demo-preferences-"
)

func demoProjectsKey(actorID string) string {
	return demoProjectsPrefix + actorID
}

func demoPreferencesKey(actorID string) string {
	return demoPreferencePrefix + actorID
}

// localState is the persisted client-side container. The mutex serializes
// read-modify-write sequences within one process; callers hold it.
type localState struct {
	mu sync.Mutex
	kv repository.KVStore
}

func newLocalState(kv repository.KVStore) *localState {
	return &localState{kv: kv}
}

// load decodes key into v and reports whether the key existed.
func (l *localState) load(ctx context.Context, key string, v any) (bool, error) {
	raw, err := l.kv.Get(ctx, key)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (l *localState) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := l.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (l *localState) remove(ctx context.Context, key string) error {
	if err := l.kv.Delete(ctx, key); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
