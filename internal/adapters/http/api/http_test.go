package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/podiumhq/podium/internal/adapters/http/api"
	"github.com/podiumhq/podium/internal/adapters/registry"
	service "github.com/podiumhq/podium/internal/app"
	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/internal/domain/kpi"
	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
	"github.com/podiumhq/podium/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
	os.Exit(m.Run())
}

// stubDeps is an in-memory Dependencies implementation backed by a single
// medallist table and a session map.
type stubDeps struct {
	tbl      *table.Table
	sessions map[string]service.Session
	reloaded []string
}

func newStubDeps() *stubDeps {
	tbl, err := table.FromRows(
		[]string{schema.ColCountryCode, schema.ColMedalType, schema.ColContinent},
		[][]string{
			{"FRA", "Gold Medal", "Europe"},
			{"FRA", "Silver Medal", "Europe"},
			{"USA", "Gold Medal", "North America"},
		},
	)
	if err != nil {
		panic(err)
	}
	return &stubDeps{tbl: tbl, sessions: make(map[string]service.Session)}
}

func (s *stubDeps) GetTable(_ context.Context, name string, sel filter.Selection, limit int) (*table.Table, error) {
	if name != "medallists" && !strings.HasPrefix(name, "results/") {
		return nil, fmt.Errorf("%w: %q", registry.ErrUnknownSource, name)
	}
	out := sel.Apply(s.tbl)
	if limit >= 0 {
		out = out.Head(limit)
	}
	return out, nil
}

func (s *stubDeps) GetKPIs(ctx context.Context, name string, sel filter.Selection) (kpi.Set, error) {
	tbl, err := s.GetTable(ctx, name, sel, -1)
	if err != nil {
		return kpi.Set{}, err
	}
	return kpi.Compute(tbl), nil
}

func (s *stubDeps) GetOverview(_ context.Context, sel filter.Selection) (service.Overview, error) {
	filtered := sel.Apply(s.tbl)
	if filtered.Len() == 0 {
		return service.Overview{}, nil
	}
	return service.Overview{
		Medals:     filtered.Len(),
		Countries:  filtered.DistinctCount(schema.ColCountryCode),
		Continents: kpi.Distribution(filtered, schema.ColContinent),
	}, nil
}

func (s *stubDeps) GetTally(_ context.Context, groupBy string, sel filter.Selection) (*table.Table, error) {
	return kpi.Tally(sel.Apply(s.tbl), groupBy)
}

func (s *stubDeps) GetSources(context.Context) service.SourceInfo {
	return service.SourceInfo{
		Known:     []string{"medallists"},
		Available: []string{"medallists"},
		Cached:    []string{"medallists"},
	}
}

func (s *stubDeps) Reload(name string) {
	s.reloaded = append(s.reloaded, name)
}

func (s *stubDeps) CreateSession(_ context.Context, sel filter.Selection) (service.Session, error) {
	sess := service.Session{
		ID:        fmt.Sprintf("sess-%d", len(s.sessions)+1),
		Selection: sel,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *stubDeps) GetSession(_ context.Context, id string) (service.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return service.Session{}, fmt.Errorf("%w: %s", service.ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *stubDeps) UpdateSession(_ context.Context, id string, sel filter.Selection) (service.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return service.Session{}, fmt.Errorf("%w: %s", service.ErrSessionNotFound, id)
	}
	sess.Selection = sel
	s.sessions[id] = sess
	return sess, nil
}

func (s *stubDeps) DeleteSession(_ context.Context, id string) error {
	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", service.ErrSessionNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

type stubStats struct{}

func (stubStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newTestServer(deps *stubDeps) *httptest.Server {
	r := chi.NewRouter()
	api.NewServer(deps, stubStats{}, 100).Register(context.Background(), r)
	return httptest.NewServer(r)
}

func get(ts *httptest.Server, path string) (*http.Response, map[string]any) {
	resp, err := http.Get(ts.URL + path)
	So(err, ShouldBeNil)
	defer resp.Body.Close()
	var body map[string]any
	So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
	return resp, body
}

func TestTableRoutes(t *testing.T) {
	Convey("Given the API over a medallist dataset", t, func() {
		deps := newStubDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When fetching a table", func() {
			resp, body := get(ts, "/api/tables/medallists")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["source"], ShouldEqual, "medallists")
			So(body["rows"], ShouldEqual, 3)
			So(body["records"], ShouldHaveLength, 3)
		})

		Convey("When fetching a table with filters", func() {
			resp, body := get(ts, "/api/tables/medallists?countries=FRA")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["rows"], ShouldEqual, 2)
		})

		Convey("When fetching a per-sport result sheet", func() {
			resp, body := get(ts, "/api/tables/results/Judo")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["source"], ShouldEqual, "results/Judo")
		})

		Convey("When the limit is above the cap", func() {
			resp, body := get(ts, "/api/tables/medallists?limit=1000")

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "limit_exceeded")
		})

		Convey("When the limit is not a number", func() {
			resp, body := get(ts, "/api/tables/medallists?limit=lots")

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When a filter parameter is malformed", func() {
			resp, body := get(ts, "/api/tables/medallists?age_min=young")

			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When the source is unknown", func() {
			resp, body := get(ts, "/api/tables/nope")

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(body["code"], ShouldEqual, "unknown_source")
		})

		Convey("When fetching table KPIs", func() {
			resp, body := get(ts, "/api/tables/medallists/kpis")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["medals"], ShouldEqual, 3)
			So(body["countries"], ShouldEqual, 2)
		})
	})
}

func TestOverviewAndTallyRoutes(t *testing.T) {
	Convey("Given the API over a medallist dataset", t, func() {
		deps := newStubDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When fetching the overview", func() {
			resp, body := get(ts, "/api/overview")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["medals"], ShouldEqual, 3)
			So(body["countries"], ShouldEqual, 2)
		})

		Convey("When fetching a filtered overview", func() {
			resp, body := get(ts, "/api/overview?continents=Europe")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["medals"], ShouldEqual, 2)
		})

		Convey("When fetching the tally with the default grouping", func() {
			resp, body := get(ts, "/api/tally")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["source"], ShouldEqual, "tally")
			So(body["rows"], ShouldEqual, 2)

			records := body["records"].([]any)
			first := records[0].(map[string]any)
			So(first[schema.ColCountryCode], ShouldEqual, "FRA")
			So(first[schema.ColTotal], ShouldEqual, "2")
		})

		Convey("When grouping by an absent column", func() {
			resp, body := get(ts, "/api/tally?group_by=stadium")

			So(resp.StatusCode, ShouldEqual, http.StatusUnprocessableEntity)
			So(body["code"], ShouldEqual, "schema_mismatch")
		})
	})
}

func TestSourcesRoutes(t *testing.T) {
	Convey("Given the API", t, func() {
		deps := newStubDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		Convey("When listing sources", func() {
			resp, body := get(ts, "/api/sources")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["known"], ShouldResemble, []any{"medallists"})
		})

		Convey("When reloading one source", func() {
			resp, err := http.Post(ts.URL+"/api/reload?source=medallists", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.reloaded, ShouldResemble, []string{"medallists"})
		})

		Convey("When reloading everything", func() {
			resp, err := http.Post(ts.URL+"/api/reload", "application/json", nil)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(deps.reloaded, ShouldResemble, []string{""})
		})
	})
}

func TestSessionRoutes(t *testing.T) {
	Convey("Given the API", t, func() {
		deps := newStubDeps()
		ts := newTestServer(deps)
		defer ts.Close()

		createSession := func(payload string) (int, map[string]any) {
			resp, err := http.Post(ts.URL+"/api/sessions", "application/json", strings.NewReader(payload))
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			var body map[string]any
			So(json.NewDecoder(resp.Body).Decode(&body), ShouldBeNil)
			return resp.StatusCode, body
		}

		Convey("When creating a session", func() {
			status, body := createSession(`{"countries":["FRA"]}`)

			So(status, ShouldEqual, http.StatusCreated)
			So(body["id"], ShouldNotBeEmpty)

			id := body["id"].(string)

			Convey("Then it can be fetched", func() {
				resp, got := get(ts, "/api/sessions/"+id)
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(got["id"], ShouldEqual, id)
			})

			Convey("Then table requests can reference it", func() {
				resp, got := get(ts, "/api/tables/medallists?session="+id)

				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(got["rows"], ShouldEqual, 2)
			})

			Convey("Then it can be updated", func() {
				req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/sessions/"+id,
					strings.NewReader(`{"genders":["Female"]}`))
				So(err, ShouldBeNil)
				resp, err := http.DefaultClient.Do(req)
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})

			Convey("Then it can be deleted", func() {
				req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/sessions/"+id, nil)
				So(err, ShouldBeNil)
				resp, err := http.DefaultClient.Do(req)
				So(err, ShouldBeNil)
				defer resp.Body.Close()

				So(resp.StatusCode, ShouldEqual, http.StatusNoContent)

				Convey("And fetching it afterwards is a 404", func() {
					after, got := get(ts, "/api/sessions/"+id)
					So(after.StatusCode, ShouldEqual, http.StatusNotFound)
					So(got["code"], ShouldEqual, "session_not_found")
				})
			})
		})

		Convey("When creating a session with inverted age bounds", func() {
			status, body := createSession(`{"age_min":30,"age_max":20}`)

			So(status, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When creating a session with a malformed body", func() {
			status, body := createSession(`not json`)

			So(status, ShouldEqual, http.StatusBadRequest)
			So(body["code"], ShouldEqual, "bad_request")
		})

		Convey("When referencing an unknown session on a table request", func() {
			resp, body := get(ts, "/api/tables/medallists?session=nope")

			So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			So(body["code"], ShouldEqual, "session_not_found")
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given the API", t, func() {
		ts := newTestServer(newStubDeps())
		defer ts.Close()

		Convey("When probing the health endpoint", func() {
			resp, err := http.Get(ts.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it serves the metrics exposition", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When fetching stats", func() {
			resp, body := get(ts, "/stats")

			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			So(body["started"], ShouldEqual, true)
		})
	})
}
