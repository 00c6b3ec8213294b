package registry

import (
	"time"

	"github.com/podiumhq/podium/pkg/logger"
)

// Option applies a configuration option to the Registry.
type Option func(*Registry)

// WithLogger sets the logger used by the registry.
func WithLogger(log logger.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithReferenceDate anchors athlete age derivation.
func WithReferenceDate(ref time.Time) Option {
	return func(r *Registry) {
		if !ref.IsZero() {
			r.refDate = ref
		}
	}
}

// WithWatchDebounce sets how long file change bursts are coalesced before
// cached datasets are invalidated.
func WithWatchDebounce(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.watchDebounce = d
		}
	}
}
