// Package compute runs Game of Life steps either inline on the caller's
// goroutine or on a dedicated worker goroutine that exchanges serialized
// grids with the coordinator.
package compute

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

var (
	// ErrComputationUnavailable is returned when a worker cannot be started
	ErrComputationUnavailable = errors.New("computation worker unavailable")
	// ErrWorkerClosed is returned when dispatching to a stopped worker
	ErrWorkerClosed = errors.New("computation worker closed")
	// ErrBusy is returned when a computation is already in flight
	ErrBusy = errors.New("computation already in flight")
)

// Mode selects where steps are computed
type Mode string

const (
	ModeInline Mode = "inline"
	ModeWorker Mode = "worker"
)

// StepFunc produces the generation after g
type StepFunc func(g *model.Grid) *model.Grid

// Sequential computes a step on the calling goroutine
func Sequential(g *model.Grid) *model.Grid {
	return g.NextGeneration()
}

// Parallel computes a step with rows split across the given number of goroutines
func Parallel(workers int) StepFunc {
	return func(g *model.Grid) *model.Grid {
		return g.NextGenerationParallel(workers)
	}
}

// Result is the outcome of one computation
type Result struct {
	Grid    *model.Grid
	Elapsed time.Duration
	Err     error
}

// Computer dispatches step computations. Each Dispatch yields a Call that
// resolves exactly once.
type Computer interface {
	Dispatch(g *model.Grid) (*Call, error)
	Close() error
}

// New returns a worker-backed Computer for ModeWorker, falling back to inline
// computation when the worker cannot be started.
func New(ctx context.Context, mode Mode, step StepFunc, logger *slog.Logger) Computer {
	if logger == nil {
		logger = slog.Default()
	}
	if step == nil {
		step = Sequential
	}
	if mode == ModeWorker {
		w, err := StartWorker(ctx, step, logger)
		if err == nil {
			return w
		}
		logger.Warn("computation worker unavailable, computing inline", "error", err)
	}
	return NewInline(step)
}

// message travels back to the coordinator: either a decoded grid (inline) or
// a serialized one (worker).
type message struct {
	grid    *model.Grid
	payload []byte
	elapsed time.Duration
	err     error
}

// Call is a single in-flight computation
type Call struct {
	reply      <-chan message
	rows, cols int

	resolved bool
	result   Result
}

func newCall(reply <-chan message, sent *model.Grid) *Call {
	return &Call{reply: reply, rows: sent.Rows(), cols: sent.Cols()}
}

// TryResult returns the result without blocking, reporting false while the computation is still running
func (c *Call) TryResult() (Result, bool) {
	if c.resolved {
		return c.result, true
	}
	select {
	case msg := <-c.reply:
		return c.resolve(msg), true
	default:
		return Result{}, false
	}
}

// Wait blocks until the result arrives or ctx is done
func (c *Call) Wait(ctx context.Context) (Result, error) {
	if c.resolved {
		return c.result, nil
	}
	select {
	case msg := <-c.reply:
		return c.resolve(msg), nil
	case <-ctx.Done():
		return Result{}, errors.Wrap(ctx.Err(), "[Call.Wait] waiting for step result")
	}
}

func (c *Call) resolve(msg message) Result {
	c.resolved = true
	c.result = Result{Elapsed: msg.elapsed, Err: msg.err}
	if msg.err != nil {
		return c.result
	}

	grid := msg.grid
	if grid == nil {
		decoded, err := model.DecodeGrid(msg.payload)
		if err != nil {
			c.result.Err = errors.Wrap(err, "[Call.resolve] decoding worker response")
			return c.result
		}
		grid = decoded
	}
	if grid.Rows() != c.rows || grid.Cols() != c.cols {
		c.result.Err = errors.Wrapf(model.ErrMalformedGrid, "[Call.resolve] got %dx%d grid, sent %dx%d",
			grid.Rows(), grid.Cols(), c.rows, c.cols)
		return c.result
	}
	c.result.Grid = grid
	return c.result
}
