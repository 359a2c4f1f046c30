package client

import (
	"context"
	"log/slog"
	"time"

	"github.com/rpggio/pmdash/internal/domain/project"
)

// DemoProjects keeps each actor's whole project collection under one local
// key. Every mutation rewrites the collection.
type DemoProjects struct {
	state    *localState
	sessions Current
	logger   *slog.Logger
	now      func() time.Time
}

// NewDemoProjects creates a demo record store.
func NewDemoProjects(state *localState, sessions Current, logger *slog.Logger) *DemoProjects {
	return &DemoProjects{state: state, sessions: sessions, logger: logger, now: time.Now}
}

// collection returns the stored projects, or the sample projects when the
// actor has none stored. Callers hold state.mu.
func (s *DemoProjects) collection(ctx context.Context, actorID string) ([]project.Project, error) {
	var projects []project.Project
	found, err := s.state.load(ctx, demoProjectsKey(actorID), &projects)
	if err != nil {
		return nil, err
	}
	if !found {
		return defaultProjects(actorID), nil
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}

// List returns the current actor's projects in stored order.
func (s *DemoProjects) List(ctx context.Context) ([]project.Project, error) {
	actor, err := currentActor(s.sessions)
	if err != nil {
		return nil, err
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	projects, err := s.collection(ctx, actor.ID)
	if err != nil {
		return nil, failure(err)
	}
	return projects, nil
}

// Create appends a new project assigned to the current actor unless the
// request names an assignee.
func (s *DemoProjects) Create(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	actor, err := currentActor(s.sessions)
	if err != nil {
		return nil, err
	}
	if req.Assignee == nil {
		assignee := project.AssigneeFor(actor.Name, actor.Email)
		req.Assignee = &assignee
	}
	proj, err := project.New(actor.ID, req, s.now().UTC())
	if err != nil {
		return nil, failure(err)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	projects, err := s.collection(ctx, actor.ID)
	if err != nil {
		return nil, failure(err)
	}
	projects = append(projects, *proj)
	if err := s.state.save(ctx, demoProjectsKey(actor.ID), projects); err != nil {
		return nil, failure(err)
	}
	if s.logger != nil {
		s.logger.Debug("demo project created", slog.String("project_id", proj.ID))
	}
	return proj, nil
}

// Update merges patch into the project with the given id.
func (s *DemoProjects) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	actor, err := currentActor(s.sessions)
	if err != nil {
		return nil, err
	}
	if err := project.ValidatePatch(patch); err != nil {
		return nil, failure(err)
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	projects, err := s.collection(ctx, actor.ID)
	if err != nil {
		return nil, failure(err)
	}
	for i := range projects {
		if projects[i].ID != id {
			continue
		}
		projects[i].Apply(patch, s.now().UTC())
		if err := s.state.save(ctx, demoProjectsKey(actor.ID), projects); err != nil {
			return nil, failure(err)
		}
		updated := projects[i]
		return &updated, nil
	}
	return nil, failure(project.ErrProjectNotFound)
}

// Delete removes the project with the given id. Deleting an absent id still
// rewrites the collection and succeeds.
func (s *DemoProjects) Delete(ctx context.Context, id string) error {
	actor, err := currentActor(s.sessions)
	if err != nil {
		return err
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	projects, err := s.collection(ctx, actor.ID)
	if err != nil {
		return failure(err)
	}
	kept := projects[:0]
	for _, p := range projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if err := s.state.save(ctx, demoProjectsKey(actor.ID), kept); err != nil {
		return failure(err)
	}
	return nil
}
