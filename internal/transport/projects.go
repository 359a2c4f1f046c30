package transport

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rpggio/pmdash/internal/domain/project"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	projects, err := s.projects.List(r.Context(), actor.ID)
	if err != nil {
		s.internalError(w, r, "fetching projects", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	var req project.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Assignee == nil {
		assignee := project.AssigneeFor(actor.Name, actor.Email)
		req.Assignee = &assignee
	}

	proj, err := s.projects.Create(r.Context(), actor.ID, req)
	if err != nil {
		if errors.Is(err, project.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, "creating project", err)
		return
	}
	s.metrics.ProjectMutation("create")
	writeJSON(w, http.StatusOK, map[string]any{"project": proj})
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	var patch project.Patch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	proj, err := s.projects.Update(r.Context(), actor.ID, chi.URLParam(r, "id"), patch)
	if err != nil {
		switch {
		case errors.Is(err, project.ErrProjectNotFound):
			writeError(w, http.StatusNotFound, "Project not found")
		case errors.Is(err, project.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.internalError(w, r, "updating project", err)
		}
		return
	}
	s.metrics.ProjectMutation("update")
	writeJSON(w, http.StatusOK, map[string]any{"project": proj})
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	if err := s.projects.Delete(r.Context(), actor.ID, chi.URLParam(r, "id")); err != nil {
		s.internalError(w, r, "deleting project", err)
		return
	}
	s.metrics.ProjectMutation("delete")
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleProjectSummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	summary, err := s.projects.Summary(r.Context(), actor.ID)
	if err != nil {
		s.internalError(w, r, "summarizing projects", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": summary})
}
