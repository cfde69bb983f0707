package engine

import (
	"log/slog"
	"time"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

// DefaultInterval is the logical time between generations
const DefaultInterval = 100 * time.Millisecond

// Option configures a Loop
type Option func(*Loop)

// WithInterval sets the logical time between generations
func WithInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithObserver registers a render collaborator
func WithObserver(o Observer) Option {
	return func(l *Loop) {
		if o != nil {
			l.observers = append(l.observers, o)
		}
	}
}

// WithSampler replaces the default step timing sampler
func WithSampler(s *utils.Sampler) Option {
	return func(l *Loop) {
		if s != nil {
			l.sampler = s
		}
	}
}

// WithRand sets the random source used by Randomize
func WithRand(r model.Rand) Option {
	return func(l *Loop) {
		if r != nil {
			l.rng = r
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}
