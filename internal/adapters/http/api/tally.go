// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"

	"github.com/podiumhq/podium/internal/domain/schema"
)

// TallyHandler serves grouped medal counts.
type TallyHandler struct {
	deps Dependencies
}

// NewTallyHandler creates a new tally handler.
func NewTallyHandler(deps Dependencies) *TallyHandler {
	return &TallyHandler{deps: deps}
}

// HandleGetTally handles GET /api/tally?group_by=country_code requests.
func (h *TallyHandler) HandleGetTally(w http.ResponseWriter, r *http.Request) {
	sel, err := resolveSelection(r, h.deps)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	groupBy := r.URL.Query().Get("group_by")
	if groupBy == "" {
		groupBy = schema.ColCountryCode
	}

	tbl, err := h.deps.GetTally(r.Context(), groupBy, sel)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{
		Source:  "tally",
		Columns: tbl.Columns(),
		Rows:    tbl.Len(),
		Records: tbl.Records(),
	})
}
