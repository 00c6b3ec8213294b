// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// TablesHandler serves filtered dataset rows and per-dataset KPIs.
type TablesHandler struct {
	deps     Dependencies
	maxLimit int
}

// NewTablesHandler creates a new tables handler.
func NewTablesHandler(deps Dependencies, maxLimit int) *TablesHandler {
	return &TablesHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

type tableResponse struct {
	Source  string              `json:"source"`
	Columns []string            `json:"columns"`
	Rows    int                 `json:"rows"`
	Records []map[string]string `json:"records"`
}

// HandleGetTable handles GET /api/tables/{name} requests.
func (h *TablesHandler) HandleGetTable(w http.ResponseWriter, r *http.Request) {
	h.serveTable(w, r, chi.URLParam(r, "name"))
}

// HandleGetResults handles GET /api/tables/results/{sport} requests.
func (h *TablesHandler) HandleGetResults(w http.ResponseWriter, r *http.Request) {
	h.serveTable(w, r, "results/"+chi.URLParam(r, "sport"))
}

func (h *TablesHandler) serveTable(w http.ResponseWriter, r *http.Request, name string) {
	sel, err := resolveSelection(r, h.deps)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	limit := h.maxLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded",
				fmt.Errorf("%w: limit above %d", ErrBadRequest, h.maxLimit))
			return
		}
		limit = n
	}

	tbl, err := h.deps.GetTable(r.Context(), name, sel, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{
		Source:  name,
		Columns: tbl.Columns(),
		Rows:    tbl.Len(),
		Records: tbl.Records(),
	})
}

// HandleGetKPIs handles GET /api/tables/{name}/kpis requests.
func (h *TablesHandler) HandleGetKPIs(w http.ResponseWriter, r *http.Request) {
	h.serveKPIs(w, r, chi.URLParam(r, "name"))
}

// HandleGetResultsKPIs handles GET /api/tables/results/{sport}/kpis requests.
func (h *TablesHandler) HandleGetResultsKPIs(w http.ResponseWriter, r *http.Request) {
	h.serveKPIs(w, r, "results/"+chi.URLParam(r, "sport"))
}

func (h *TablesHandler) serveKPIs(w http.ResponseWriter, r *http.Request, name string) {
	sel, err := resolveSelection(r, h.deps)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	set, err := h.deps.GetKPIs(r.Context(), name, sel)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, set)
}
