package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/pmdash/internal/domain/session"
	"github.com/rpggio/pmdash/internal/identity"
)

// TokenResponse is returned by the password grant.
type TokenResponse struct {
	AccessToken string        `json:"access_token"`
	TokenType   string        `json:"token_type"`
	ExpiresAt   int64         `json:"expires_at"`
	User        session.Actor `json:"user"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// accountError maps identity failures that the caller can fix to 400.
func accountError(err error) (string, bool) {
	switch {
	case errors.Is(err, identity.ErrMissingFields),
		errors.Is(err, session.ErrNameRequired),
		errors.Is(err, session.ErrInvalidEmail),
		errors.Is(err, session.ErrWeakPassword),
		errors.Is(err, session.ErrActorNotFound):
		return err.Error(), true
	case errors.Is(err, session.ErrEmailTaken):
		return "A user with this email address has already been registered", true
	case errors.Is(err, session.ErrInvalidCredentials):
		return "Invalid login credentials", true
	default:
		return "", false
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req session.SignUpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, identity.ErrMissingFields.Error())
		return
	}
	actor, err := s.identity.CreateUser(r.Context(), req)
	if err != nil {
		if msg, ok := accountError(err); ok {
			if s.logger != nil {
				s.logger.Info("signup rejected", "email", req.Email, "error", err)
			}
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		s.internalError(w, r, "signing up", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": actor})
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := s.identity.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		if msg, ok := accountError(err); ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		s.internalError(w, r, "signing in", err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{
		AccessToken: sess.AccessToken,
		TokenType:   "bearer",
		ExpiresAt:   sess.ExpiresAt.Unix(),
		User:        sess.Actor,
	})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": actor})
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	var update session.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := s.identity.UpdateUser(r.Context(), actor.ID, update)
	if err != nil {
		if msg, ok := accountError(err); ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}
		s.internalError(w, r, "updating user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"user": updated})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.identity.SignOut(r.Context(), tokenFromContext(r.Context())); err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
