package project

import "context"

// Repository provides persistence for projects, scoped by owner.
type Repository interface {
	Get(ctx context.Context, ownerID, id string) (*Project, error)
	Save(ctx context.Context, ownerID string, proj *Project) error
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]Project, error)
}
