// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/podiumhq/podium/internal/adapters/preload"
	"github.com/podiumhq/podium/internal/adapters/registry"
	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/internal/domain/kpi"
	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
	"github.com/podiumhq/podium/pkg/logger"
)

// Service wires the dataset registry, filtering, aggregation, and filter
// sessions behind one API surface.
type Service struct {
	mu sync.RWMutex

	// Core components
	registry *registry.Registry
	sessions *sessionStore

	// Configuration
	dataDir        string
	watchData      bool
	preloadWorkers int
	refDate        time.Time
	sessionTTL     time.Duration

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDataDir sets the dataset directory.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithWatchData enables or disables the filesystem watcher.
func WithWatchData(watch bool) Option {
	return func(s *Service) {
		s.watchData = watch
	}
}

// WithPreloadWorkers sets the number of cache warmup workers. Zero disables
// the warmup entirely.
func WithPreloadWorkers(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.preloadWorkers = n
		}
	}
}

// WithReferenceDate anchors athlete age derivation.
func WithReferenceDate(ref time.Time) Option {
	return func(s *Service) {
		if !ref.IsZero() {
			s.refDate = ref
		}
	}
}

// WithSessionTTL bounds how long an untouched filter session lives.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	ref, _ := time.Parse("2006-01-02", "2024-07-26")
	s := &Service{
		dataDir:        "data",
		watchData:      true,
		preloadWorkers: runtime.NumCPU(),
		refDate:        ref,
		sessionTTL:     time.Hour,
		stopCh:         make(chan struct{}),
		logger:         nil, // Will be replaced when service starts
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// Initialize logger if not already set
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting dashboard service...")

	reg, err := registry.New(s.dataDir,
		registry.WithLogger(s.logger.Named("registry")),
		registry.WithReferenceDate(s.refDate),
	)
	if err != nil {
		return err
	}
	s.registry = reg

	if s.watchData {
		if err := s.registry.Watch(ctx); err != nil {
			s.logger.Warn(ctx, "data watcher disabled", logger.Error(err))
		}
	}

	s.sessions = newSessionStore(s.sessionTTL)
	go s.sessions.janitor(ctx, s.stopCh)

	if s.preloadWorkers > 0 {
		pool := preload.NewPool(s.registry,
			preload.WithWorkers(s.preloadWorkers),
			preload.WithLogger(s.logger.Named("preload")),
		)
		sources := s.registry.Available(ctx)
		go pool.Warm(ctx, sources)
	}

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.String("dataDir", s.dataDir),
		logger.Int("preloadWorkers", s.preloadWorkers),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping dashboard service...")

	if s.registry != nil {
		s.registry.Close()
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// GetTable loads a dataset, applies the selection, and caps the row count.
// A limit below zero means unlimited.
func (s *Service) GetTable(ctx context.Context, name string, sel filter.Selection, limit int) (*table.Table, error) {
	tbl, err := s.registry.Load(ctx, name)
	if err != nil {
		return nil, err
	}
	out := sel.Apply(tbl)
	if limit >= 0 {
		out = out.Head(limit)
	}
	return out, nil
}

// GetKPIs computes the KPI set for one filtered dataset.
func (s *Service) GetKPIs(ctx context.Context, name string, sel filter.Selection) (kpi.Set, error) {
	tbl, err := s.registry.Load(ctx, name)
	if err != nil {
		return kpi.Set{}, err
	}
	return kpi.Compute(sel.Apply(tbl)), nil
}

// Overview is the cross-dataset headline block for the dashboard landing
// page.
type Overview struct {
	Athletes   int         `json:"athletes"`
	Countries  int         `json:"countries"`
	Sports     int         `json:"sports"`
	Events     int         `json:"events"`
	Medals     int         `json:"medals"`
	Continents []kpi.Count `json:"continents,omitempty"`
	Genders    []kpi.Count `json:"genders,omitempty"`
	MedalTypes []kpi.Count `json:"medal_types,omitempty"`
}

// GetOverview combines the athlete, medal, and event datasets under one
// selection. Sources missing on disk contribute zeros; the overview only
// fails when none of them is available.
func (s *Service) GetOverview(ctx context.Context, sel filter.Selection) (Overview, error) {
	var o Overview
	available := 0

	if athletes, err := s.registry.Load(ctx, "athletes"); err == nil {
		available++
		filtered := sel.Apply(athletes)
		set := kpi.Compute(filtered)
		o.Athletes = set.Athletes
		o.Genders = kpi.Distribution(filtered, schema.ColGender)
	} else {
		s.logger.Warn(ctx, "overview source skipped", logger.String("source", "athletes"), logger.Error(err))
	}

	if medals, err := s.registry.Load(ctx, "medallists"); err == nil {
		available++
		filtered := sel.Apply(medals)
		set := kpi.Compute(filtered)
		o.Medals = set.Medals
		o.Countries = set.Countries
		o.Continents = kpi.Distribution(filtered, schema.ColContinent)
		o.MedalTypes = kpi.Distribution(filtered, schema.ColMedalType)
	} else {
		s.logger.Warn(ctx, "overview source skipped", logger.String("source", "medallists"), logger.Error(err))
	}

	if events, err := s.registry.Load(ctx, "events"); err == nil {
		available++
		filtered := sel.Apply(events)
		set := kpi.Compute(filtered)
		o.Sports = set.Sports
		o.Events = filtered.Len()
	} else {
		s.logger.Warn(ctx, "overview source skipped", logger.String("source", "events"), logger.Error(err))
	}

	if available == 0 {
		return Overview{}, registry.ErrDataUnavailable
	}
	return o, nil
}

// GetTally groups the filtered per-medal dataset by the given dimension and
// counts gold, silver, and bronze per group.
func (s *Service) GetTally(ctx context.Context, groupBy string, sel filter.Selection) (*table.Table, error) {
	medals, err := s.registry.Load(ctx, "medallists")
	if errors.Is(err, registry.ErrDataUnavailable) {
		medals, err = s.registry.Load(ctx, "medals")
	}
	if err != nil {
		return nil, err
	}
	return kpi.Tally(sel.Apply(medals), groupBy)
}

// SourceInfo describes what the registry knows about its datasets.
type SourceInfo struct {
	Known     []string `json:"known"`
	Available []string `json:"available"`
	Cached    []string `json:"cached"`
}

// GetSources reports known, on-disk, and cached dataset sources.
func (s *Service) GetSources(ctx context.Context) SourceInfo {
	return SourceInfo{
		Known:     s.registry.Sources(),
		Available: s.registry.Available(ctx),
		Cached:    s.registry.Cached(),
	}
}

// Reload drops cached datasets so the next read hits disk. With a name it
// invalidates one source, without it everything.
func (s *Service) Reload(name string) {
	if name == "" {
		s.registry.InvalidateAll()
		return
	}
	s.registry.Invalidate(name)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"dataDir":        s.dataDir,
		"watchData":      s.watchData,
		"preloadWorkers": s.preloadWorkers,
		"referenceDate":  s.refDate.Format("2006-01-02"),
	}

	if s.started {
		stats["cachedDatasets"] = s.registry.Cached()
		stats["activeSessions"] = s.sessions.count()
	}

	return stats
}
