// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/podiumhq/podium/internal/adapters/registry"
	service "github.com/podiumhq/podium/internal/app"
	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/internal/domain/kpi"
	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	GetTable(ctx context.Context, name string, sel filter.Selection, limit int) (*table.Table, error)
	GetKPIs(ctx context.Context, name string, sel filter.Selection) (kpi.Set, error)
	GetOverview(ctx context.Context, sel filter.Selection) (service.Overview, error)
	GetTally(ctx context.Context, groupBy string, sel filter.Selection) (*table.Table, error)
	GetSources(ctx context.Context) service.SourceInfo
	Reload(name string)

	CreateSession(ctx context.Context, sel filter.Selection) (service.Session, error)
	GetSession(ctx context.Context, id string) (service.Session, error)
	UpdateSession(ctx context.Context, id string, sel filter.Selection) (service.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	tablesHandler   *TablesHandler
	overviewHandler *OverviewHandler
	tallyHandler    *TallyHandler
	sourcesHandler  *SourcesHandler
	sessionsHandler *SessionsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxLimit int) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		tablesHandler:   NewTablesHandler(deps, maxLimit),
		overviewHandler: NewOverviewHandler(deps),
		tallyHandler:    NewTallyHandler(deps),
		sourcesHandler:  NewSourcesHandler(deps),
		sessionsHandler: NewSessionsHandler(deps),
	}
}

// Register attaches all HTTP routes to the router.
func (s *Server) Register(ctx context.Context, r chi.Router) {
	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	r.Route("/api", func(r chi.Router) {
		r.Get("/sources", MetricsMiddleware(s.sourcesHandler.HandleGetSources, "sources"))
		r.Post("/reload", MetricsMiddleware(s.sourcesHandler.HandleReload, "reload"))
		r.Get("/overview", MetricsMiddleware(s.overviewHandler.HandleGetOverview, "overview"))
		r.Get("/tally", MetricsMiddleware(s.tallyHandler.HandleGetTally, "tally"))

		r.Get("/tables/results/{sport}", MetricsMiddleware(s.tablesHandler.HandleGetResults, "table"))
		r.Get("/tables/results/{sport}/kpis", MetricsMiddleware(s.tablesHandler.HandleGetResultsKPIs, "table_kpis"))
		r.Get("/tables/{name}", MetricsMiddleware(s.tablesHandler.HandleGetTable, "table"))
		r.Get("/tables/{name}/kpis", MetricsMiddleware(s.tablesHandler.HandleGetKPIs, "table_kpis"))

		r.Post("/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreateSession, "sessions"))
		r.Get("/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleGetSession, "sessions"))
		r.Put("/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleUpdateSession, "sessions"))
		r.Delete("/sessions/{id}", MetricsMiddleware(s.sessionsHandler.HandleDeleteSession, "sessions"))
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps domain error kinds onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, registry.ErrUnknownSource):
		writeError(w, http.StatusNotFound, "unknown_source", err)
	case errors.Is(err, registry.ErrDataUnavailable):
		writeError(w, http.StatusServiceUnavailable, "data_unavailable", err)
	case errors.Is(err, schema.ErrSchemaMismatch):
		writeError(w, http.StatusUnprocessableEntity, "schema_mismatch", err)
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", err)
	case errors.Is(err, filter.ErrInvalidSelection):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// resolveSelection builds the filter selection for a request: a session id,
// when given, supplies the stored selection; otherwise the selection comes
// from the query parameters.
func resolveSelection(r *http.Request, deps Dependencies) (filter.Selection, error) {
	if id := r.URL.Query().Get("session"); id != "" {
		sess, err := deps.GetSession(r.Context(), id)
		if err != nil {
			return filter.Selection{}, err
		}
		return sess.Selection, nil
	}
	return filter.FromQuery(r.URL.Query())
}
