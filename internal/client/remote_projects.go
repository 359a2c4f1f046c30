package client

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/rpggio/pmdash/internal/domain/preference"
	"github.com/rpggio/pmdash/internal/domain/project"
)

// RemoteProjects sends one API request per operation.
type RemoteProjects struct {
	api      *remoteAPI
	sessions Current
	logger   *slog.Logger
}

// NewRemoteProjects creates a remote record store.
func NewRemoteProjects(api *remoteAPI, sessions Current, logger *slog.Logger) *RemoteProjects {
	return &RemoteProjects{api: api, sessions: sessions, logger: logger}
}

func (s *RemoteProjects) logFailure(op string, err error) {
	if s.logger != nil {
		s.logger.Error(op+" failed", slog.String("error", err.Error()))
	}
}

func (s *RemoteProjects) List(ctx context.Context) ([]project.Project, error) {
	sess, err := currentSession(s.sessions)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Projects []project.Project `json:"projects"`
	}
	err = s.api.do(ctx, request{
		method:   http.MethodGet,
		path:     "/projects",
		token:    sess.AccessToken,
		fallback: "Failed to load projects",
		network:  "Network error while loading projects",
	}, &resp)
	if err != nil {
		s.logFailure("load projects", err)
		return nil, err
	}
	if resp.Projects == nil {
		resp.Projects = []project.Project{}
	}
	return resp.Projects, nil
}

// Create posts the request; the server assigns the current actor when no
// assignee is given.
func (s *RemoteProjects) Create(ctx context.Context, req project.CreateRequest) (*project.Project, error) {
	sess, err := currentSession(s.sessions)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Project project.Project `json:"project"`
	}
	err = s.api.do(ctx, request{
		method:   http.MethodPost,
		path:     "/projects",
		token:    sess.AccessToken,
		body:     req,
		fallback: "Failed to create project",
		network:  "Network error while creating project",
	}, &resp)
	if err != nil {
		s.logFailure("create project", err)
		return nil, err
	}
	return &resp.Project, nil
}

func (s *RemoteProjects) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	sess, err := currentSession(s.sessions)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Project project.Project `json:"project"`
	}
	err = s.api.do(ctx, request{
		method:   http.MethodPut,
		path:     "/projects/" + url.PathEscape(id),
		token:    sess.AccessToken,
		body:     patch,
		fallback: "Failed to update project",
		network:  "Network error while updating project",
	}, &resp)
	if err != nil {
		s.logFailure("update project", err)
		return nil, err
	}
	return &resp.Project, nil
}

func (s *RemoteProjects) Delete(ctx context.Context, id string) error {
	sess, err := currentSession(s.sessions)
	if err != nil {
		return err
	}
	err = s.api.do(ctx, request{
		method:   http.MethodDelete,
		path:     "/projects/" + url.PathEscape(id),
		token:    sess.AccessToken,
		fallback: "Failed to delete project",
		network:  "Network error while deleting project",
	}, nil)
	if err != nil {
		s.logFailure("delete project", err)
	}
	return err
}

// RemotePreferences reads and writes the preferences document on the server.
type RemotePreferences struct {
	api      *remoteAPI
	sessions Current
}

// NewRemotePreferences creates a remote preference store.
func NewRemotePreferences(api *remoteAPI, sessions Current) *RemotePreferences {
	return &RemotePreferences{api: api, sessions: sessions}
}

type preferencesResponse struct {
	Preferences preference.Preferences `json:"preferences"`
}

func (s *RemotePreferences) Get(ctx context.Context) (preference.Preferences, error) {
	sess, err := currentSession(s.sessions)
	if err != nil {
		return nil, err
	}
	var resp preferencesResponse
	err = s.api.do(ctx, request{
		method:   http.MethodGet,
		path:     "/user/preferences",
		token:    sess.AccessToken,
		fallback: "Failed to load preferences",
		network:  "Network error while loading preferences",
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Preferences == nil {
		return preference.Default(), nil
	}
	return resp.Preferences, nil
}

func (s *RemotePreferences) Save(ctx context.Context, prefs preference.Preferences) (preference.Preferences, error) {
	sess, err := currentSession(s.sessions)
	if err != nil {
		return nil, err
	}
	var resp preferencesResponse
	err = s.api.do(ctx, request{
		method:   http.MethodPost,
		path:     "/user/preferences",
		token:    sess.AccessToken,
		body:     prefs,
		fallback: "Failed to save preferences",
		network:  "Network error while saving preferences",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Preferences, nil
}
