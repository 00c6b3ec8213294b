// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// OverviewHandler serves the cross-dataset headline aggregates.
type OverviewHandler struct {
	deps Dependencies
}

// NewOverviewHandler creates a new overview handler.
func NewOverviewHandler(deps Dependencies) *OverviewHandler {
	return &OverviewHandler{deps: deps}
}

// HandleGetOverview handles GET /api/overview requests.
func (h *OverviewHandler) HandleGetOverview(w http.ResponseWriter, r *http.Request) {
	sel, err := resolveSelection(r, h.deps)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	overview, err := h.deps.GetOverview(r.Context(), sel)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
