// Package registry loads, normalizes, and caches the dashboard datasets.
//
// Datasets live as CSV files under one data directory: the named sources
// (athletes.csv, medals.csv, ...) at the top level and per-sport result
// sheets under results/. Tables are cached after their normalization
// pipeline has run and are invalidated when the backing file changes on
// disk, either via a stat check on read or via the filesystem watcher.
package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/podiumhq/podium/internal/domain/continent"
	"github.com/podiumhq/podium/internal/domain/merge"
	"github.com/podiumhq/podium/internal/domain/schema"
	"github.com/podiumhq/podium/internal/domain/table"
	"github.com/podiumhq/podium/pkg/logger"
	"github.com/podiumhq/podium/pkg/metrics"
)

const (
	resultsPrefix        = "results/"
	defaultWatchDebounce = 250 * time.Millisecond
	defaultReferenceDate = "2024-07-26"
)

// knownSources maps the named dataset sources to their CSV files.
var knownSources = map[string]string{
	"athletes":              "athletes.csv",
	"coaches":               "coaches.csv",
	"events":                "events.csv",
	"medals":                "medals.csv",
	"medals_total":          "medals_total.csv",
	"medallists":            "medallists.csv",
	"nocs":                  "nocs.csv",
	"photos":                "photos.csv",
	"schedules":             "schedules.csv",
	"schedules_preliminary": "schedules_preliminary.csv",
	"teams":                 "teams.csv",
	"technical_officials":   "technical_officials.csv",
	"torch_route":           "torch_route.csv",
	"venues":                "venues.csv",
}

// needsCountryNames lists sources that get the full country name joined on
// from the NOC reference table.
var needsCountryNames = map[string]bool{
	"medals":     true,
	"medallists": true,
}

type entry struct {
	tbl     *table.Table
	modTime time.Time
	size    int64
}

// Registry is the dataset cache. It is safe for concurrent use; concurrent
// loads of the same source may both read the file, with the last writer
// winning, which is harmless since both computed the same table.
type Registry struct {
	dataDir       string
	refDate       time.Time
	watchDebounce time.Duration
	log           logger.Logger

	mu    sync.RWMutex
	cache map[string]entry

	stopWatch context.CancelFunc
	watchDone chan struct{}
}

// New creates a Registry over dataDir.
func New(dataDir string, opts ...Option) (*Registry, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: empty data directory", ErrDataUnavailable)
	}
	ref, _ := time.Parse("2006-01-02", defaultReferenceDate)
	r := &Registry{
		dataDir:       dataDir,
		refDate:       ref,
		watchDebounce: defaultWatchDebounce,
		log:           logger.Named("registry"),
		cache:         make(map[string]entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Sources returns the named dataset sources in sorted order. Per-sport
// result sheets are addressed as "results/<Sport>" and discovered via
// Available instead.
func (r *Registry) Sources() []string {
	out := make([]string, 0, len(knownSources))
	for name := range knownSources {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Available scans the data directory and returns the sources whose files
// are actually present, including per-sport result sheets.
func (r *Registry) Available(ctx context.Context) []string {
	var out []string
	for name, file := range knownSources {
		if _, err := os.Stat(filepath.Join(r.dataDir, file)); err == nil {
			out = append(out, name)
		}
	}
	if matches, err := filepath.Glob(filepath.Join(r.dataDir, "results", "*.csv")); err == nil {
		for _, m := range matches {
			sport := strings.TrimSuffix(filepath.Base(m), ".csv")
			out = append(out, resultsPrefix+sport)
		}
	}
	sort.Strings(out)
	metrics.UpdateDatasetsAvailable(len(out))
	return out
}

// path resolves a source name to its CSV file.
func (r *Registry) path(name string) (string, error) {
	if file, ok := knownSources[name]; ok {
		return filepath.Join(r.dataDir, file), nil
	}
	if sport, ok := strings.CutPrefix(name, resultsPrefix); ok {
		// Result sheet names come from URLs; keep them inside the data dir.
		if sport == "" || sport != filepath.Base(sport) || strings.Contains(sport, "..") {
			return "", fmt.Errorf("%w: %q", ErrUnknownSource, name)
		}
		return filepath.Join(r.dataDir, "results", sport+".csv"), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSource, name)
}

// Load returns the normalized table for a source, from cache when the
// backing file is unchanged since it was read.
func (r *Registry) Load(ctx context.Context, name string) (*table.Table, error) {
	path, err := r.path(name)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		metrics.RecordDatasetLoadError(name)
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, name, err)
	}

	r.mu.RLock()
	cached, ok := r.cache[name]
	r.mu.RUnlock()
	if ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		metrics.RecordDatasetCacheHit()
		return cached.tbl, nil
	}
	metrics.RecordDatasetCacheMiss()

	start := time.Now()
	tbl, err := r.read(ctx, name, path)
	if err != nil {
		metrics.RecordDatasetLoadError(name)
		return nil, err
	}

	r.mu.Lock()
	r.cache[name] = entry{tbl: tbl, modTime: info.ModTime(), size: info.Size()}
	r.mu.Unlock()

	elapsed := time.Since(start)
	metrics.RecordDatasetLoad(name)
	metrics.RecordDatasetLoadDuration(name, float64(elapsed.Milliseconds()))
	metrics.UpdateDatasetRows(name, tbl.Len())
	r.log.Info(ctx, "dataset loaded",
		logger.String("source", name),
		logger.Int("rows", tbl.Len()),
		logger.Duration("took", elapsed))
	return tbl, nil
}

// read parses the file and runs the per-source normalization pipeline.
func (r *Registry) read(ctx context.Context, name, path string) (*table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, name, err)
	}
	defer f.Close()

	tbl, err := table.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, name, err)
	}

	tbl = schema.Normalize(tbl)

	switch name {
	case "athletes":
		tbl = merge.CleanAthletes(tbl, r.refDate)
	case "medals_total":
		tbl = merge.DeriveMedalTotal(tbl)
	case "nocs":
		// Reference table, used as-is.
	}

	if needsCountryNames[name] {
		if nocs, err := r.Load(ctx, "nocs"); err == nil {
			tbl = merge.WithCountryNames(tbl, nocs)
		} else {
			r.log.Warn(ctx, "country name join skipped", logger.String("source", name), logger.Error(err))
		}
	}

	tbl = continent.WithContinent(tbl)
	return tbl, nil
}

// Invalidate drops a source from the cache. Unknown names are a no-op.
func (r *Registry) Invalidate(name string) {
	r.mu.Lock()
	delete(r.cache, name)
	r.mu.Unlock()
}

// InvalidateAll empties the cache.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	r.cache = make(map[string]entry)
	r.mu.Unlock()
}

// Cached returns the names of the sources currently held in the cache.
func (r *Registry) Cached() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.cache))
	for name := range r.cache {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
