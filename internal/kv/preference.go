package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/repository"
)

// PreferenceRepository implements preference.Repository on a KVStore
type PreferenceRepository struct {
	store repository.KVStore
}

// NewPreferenceRepository creates a new PreferenceRepository
func NewPreferenceRepository(store repository.KVStore) *PreferenceRepository {
	return &PreferenceRepository{store: store}
}

// Get returns the stored document or repository.ErrNotFound
func (r *PreferenceRepository) Get(ctx context.Context, ownerID string) (preference.Preferences, error) {
	raw, err := r.store.Get(ctx, PreferencesKey(ownerID))
	if err != nil {
		return nil, err
	}
	var prefs preference.Preferences
	if err := json.Unmarshal(raw, &prefs); err != nil {
		return nil, fmt.Errorf("failed to decode preferences: %w", err)
	}
	return prefs, nil
}

// Save replaces the stored document
func (r *PreferenceRepository) Save(ctx context.Context, ownerID string, prefs preference.Preferences) error {
	raw, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to encode preferences: %w", err)
	}
	return r.store.Set(ctx, PreferencesKey(ownerID), raw)
}
