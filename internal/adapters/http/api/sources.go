// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// SourcesHandler reports dataset availability and handles cache reloads.
type SourcesHandler struct {
	deps Dependencies
}

// NewSourcesHandler creates a new sources handler.
func NewSourcesHandler(deps Dependencies) *SourcesHandler {
	return &SourcesHandler{deps: deps}
}

// HandleGetSources handles GET /api/sources requests.
func (h *SourcesHandler) HandleGetSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.GetSources(r.Context()))
}

// HandleReload handles POST /api/reload requests. With ?source=name it
// invalidates one cached dataset, without it the whole cache.
func (h *SourcesHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("source")
	h.deps.Reload(name)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}
