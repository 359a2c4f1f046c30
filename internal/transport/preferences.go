package transport

import (
	"errors"
	"net/http"

	"github.com/rpggio/pmdash/internal/domain/preference"
)

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	prefs, err := s.preferences.Get(r.Context(), actor.ID)
	if err != nil {
		s.internalError(w, r, "fetching preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preferences": prefs})
}

func (s *Server) handleSavePreferences(w http.ResponseWriter, r *http.Request) {
	actor, ok := mustActor(w, r)
	if !ok {
		return
	}
	var prefs preference.Preferences
	if err := decodeJSON(r, &prefs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := s.preferences.Save(r.Context(), actor.ID, prefs)
	if err != nil {
		if errors.Is(err, preference.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, "saving preferences", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"preferences": saved})
}
