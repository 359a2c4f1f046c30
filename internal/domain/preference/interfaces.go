package preference

import "context"

// Repository provides persistence for an actor's preferences document.
type Repository interface {
	Get(ctx context.Context, ownerID string) (Preferences, error)
	Save(ctx context.Context, ownerID string, prefs Preferences) error
}
