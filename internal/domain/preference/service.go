package preference

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/rpggio/pmdash/internal/repository"
)

// Service handles preference operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new preference service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Get returns the stored preferences, or the defaults when none exist.
func (s *Service) Get(ctx context.Context, ownerID string) (Preferences, error) {
	prefs, err := s.repo.Get(ctx, ownerID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && prefs == nil) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting preferences: %w", err)
	}
	return prefs, nil
}

// Save replaces the stored preferences document.
func (s *Service) Save(ctx context.Context, ownerID string, prefs Preferences) (Preferences, error) {
	if err := Validate(prefs); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ownerID, prefs); err != nil {
		return nil, fmt.Errorf("saving preferences: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("preferences saved", "owner_id", ownerID, "theme", prefs.Theme())
	}
	return prefs, nil
}

// Validate rejects a nil document and unknown theme values.
func Validate(prefs Preferences) error {
	if prefs == nil {
		return fmt.Errorf("%w: document is required", ErrInvalidInput)
	}
	raw, ok := prefs["theme"]
	if !ok {
		return nil
	}
	theme, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w: theme must be a string", ErrInvalidInput)
	}
	switch theme {
	case ThemeLight, ThemeDark, ThemeSystem:
		return nil
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalidInput, theme)
	}
}
