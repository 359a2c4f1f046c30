package kv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/pmdash/internal/domain/project"
	"github.com/rpggio/pmdash/internal/repository"
)

// ProjectRepository implements project.Repository on a KVStore
type ProjectRepository struct {
	store repository.KVStore
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(store repository.KVStore) *ProjectRepository {
	return &ProjectRepository{store: store}
}

// Get retrieves a project by ID
func (r *ProjectRepository) Get(ctx context.Context, ownerID, id string) (*project.Project, error) {
	raw, err := r.store.Get(ctx, ProjectKey(ownerID, id))
	if err != nil {
		return nil, err
	}
	var proj project.Project
	if err := json.Unmarshal(raw, &proj); err != nil {
		return nil, fmt.Errorf("failed to decode project %s: %w", id, err)
	}
	return &proj, nil
}

// Save writes the whole project document
func (r *ProjectRepository) Save(ctx context.Context, ownerID string, proj *project.Project) error {
	raw, err := json.Marshal(proj)
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	return r.store.Set(ctx, ProjectKey(ownerID, proj.ID), raw)
}

// Delete removes a project
func (r *ProjectRepository) Delete(ctx context.Context, ownerID, id string) error {
	return r.store.Delete(ctx, ProjectKey(ownerID, id))
}

// List returns every project stored under the owner's prefix
func (r *ProjectRepository) List(ctx context.Context, ownerID string) ([]project.Project, error) {
	values, err := r.store.GetByPrefix(ctx, ProjectsPrefix(ownerID))
	if err != nil {
		return nil, err
	}
	projects := make([]project.Project, 0, len(values))
	for _, raw := range values {
		var proj project.Project
		if err := json.Unmarshal(raw, &proj); err != nil {
			return nil, fmt.Errorf("failed to decode project: %w", err)
		}
		projects = append(projects, proj)
	}
	return projects, nil
}
