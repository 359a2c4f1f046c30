package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/rpggio/pmdash/internal/repository"
)

// Service handles project operations for a single owner at a time.
type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// List returns the owner's projects, oldest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Project, error) {
	projects, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].CreatedAt.Before(projects[j].CreatedAt)
	})
	if projects == nil {
		projects = []Project{}
	}
	return projects, nil
}

// Create stores a new project with a fresh ID and zero progress.
func (s *Service) Create(ctx context.Context, ownerID string, req CreateRequest) (*Project, error) {
	proj, err := New(ownerID, req, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, ownerID, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("project created", "owner_id", ownerID, "project_id", proj.ID)
	}
	return proj, nil
}

// Update merges patch into an existing project.
func (s *Service) Update(ctx context.Context, ownerID, id string, patch Patch) (*Project, error) {
	if err := ValidatePatch(patch); err != nil {
		return nil, err
	}
	proj, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	proj.Apply(patch, s.now())
	if err := s.repo.Save(ctx, ownerID, proj); err != nil {
		return nil, fmt.Errorf("updating project: %w", err)
	}
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// Delete removes a project. Deleting a missing project is not an error.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("deleting project: %w", err)
	}
	return nil
}

// Summary aggregates the owner's projects.
func (s *Service) Summary(ctx context.Context, ownerID string) (Summary, error) {
	projects, err := s.List(ctx, ownerID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(projects, s.now()), nil
}
