// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/podiumhq/podium/internal/domain/filter"
)

// SessionsHandler manages saved filter sessions.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

func decodeSelection(r *http.Request) (filter.Selection, error) {
	var sel filter.Selection
	if err := json.NewDecoder(r.Body).Decode(&sel); err != nil {
		return filter.Selection{}, err
	}
	if sel.AgeMin != nil && sel.AgeMax != nil && *sel.AgeMin > *sel.AgeMax {
		return filter.Selection{}, filter.ErrInvalidSelection
	}
	return sel, nil
}

// HandleCreateSession handles POST /api/sessions requests.
func (h *SessionsHandler) HandleCreateSession(w http.ResponseWriter, r *http.Request) {
	sel, err := decodeSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sess, err := h.deps.CreateSession(r.Context(), sel)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

// HandleGetSession handles GET /api/sessions/{id} requests.
func (h *SessionsHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.deps.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// HandleUpdateSession handles PUT /api/sessions/{id} requests.
func (h *SessionsHandler) HandleUpdateSession(w http.ResponseWriter, r *http.Request) {
	sel, err := decodeSelection(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sess, err := h.deps.UpdateSession(r.Context(), chi.URLParam(r, "id"), sel)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// HandleDeleteSession handles DELETE /api/sessions/{id} requests.
func (h *SessionsHandler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteSession(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
