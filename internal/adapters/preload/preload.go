// Package preload warms the dataset cache with a bounded worker pool.
package preload

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/podiumhq/podium/internal/domain/table"
	"github.com/podiumhq/podium/pkg/logger"
)

// Loader is the slice of the registry the pool needs.
type Loader interface {
	Load(ctx context.Context, name string) (*table.Table, error)
}

// Pool loads a set of sources concurrently so the first dashboard request
// does not pay the parse cost. Failures are logged and skipped; a source
// missing on disk at startup can still appear later.
type Pool struct {
	loader  Loader
	workers int
	log     logger.Logger
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithWorkers sets the number of concurrent loaders.
func WithWorkers(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger used by the pool.
func WithLogger(log logger.Logger) Option {
	return func(p *Pool) {
		if log != nil {
			p.log = log
		}
	}
}

// NewPool creates a preload pool over the loader.
func NewPool(loader Loader, opts ...Option) *Pool {
	p := &Pool{
		loader:  loader,
		workers: runtime.NumCPU(),
		log:     logger.Named("preload"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Warm loads every named source, returning the number successfully cached.
// It stops early when the context is cancelled.
func (p *Pool) Warm(ctx context.Context, sources []string) int {
	start := time.Now()
	names := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	loaded := 0

	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for name := range names {
				if _, err := p.loader.Load(ctx, name); err != nil {
					p.log.Warn(ctx, "preload skipped", logger.String("source", name), logger.Error(err))
					continue
				}
				mu.Lock()
				loaded++
				mu.Unlock()
			}
		}()
	}

	for _, name := range sources {
		select {
		case <-ctx.Done():
			close(names)
			wg.Wait()
			return loaded
		case names <- name:
		}
	}
	close(names)
	wg.Wait()

	p.log.Info(ctx, "cache warmed",
		logger.Int("loaded", loaded),
		logger.Int("requested", len(sources)),
		logger.Duration("took", time.Since(start)))
	return loaded
}
