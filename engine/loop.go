// Package engine drives a Game of Life session: it steps the board at a fixed
// logical interval independent of the frame rate, keeps at most one step
// computation in flight, and stops on its own once the board settles.
//
// A Loop is not safe for concurrent use. Every method must be called from the
// goroutine that owns the session (the frame or UI goroutine); asynchronous
// step results are only ever applied from inside Frame, Step or Wait.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/compute"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/stability"
	"github.com/sheikhrachel/go-life/utils"
)

// ErrStepInFlight is returned by Step while a computation is pending
var ErrStepInFlight = errors.New("step already in flight")

// RunState is Idle or Running
type RunState int

const (
	Idle RunState = iota
	Running
)

func (s RunState) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

// Loop owns the grid, the generation counter and the stepping schedule.
type Loop struct {
	interval    time.Duration
	accumulator time.Duration
	state       RunState

	generation uint64
	history    stability.History

	computer compute.Computer
	call     *compute.Call
	// revision changes on every edit; results computed from an older revision are stale
	revision     uint64
	callRevision uint64
	dropped      int
	err          error

	sampler   *utils.Sampler
	observers []Observer
	rng       model.Rand
	logger    *slog.Logger
}

// New creates an idle loop over initial. A nil computer computes inline.
func New(initial *model.Grid, computer compute.Computer, opts ...Option) *Loop {
	if computer == nil {
		computer = compute.NewInline(nil)
	}
	l := &Loop{
		interval: DefaultInterval,
		history:  stability.NewHistory(initial),
		computer: computer,
		sampler:  utils.NewSampler(utils.DefaultBatchSize, utils.DefaultEWMAAlpha),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start switches to Running. The accumulator is primed with a full interval,
// so the first step is requested by the next Frame call.
func (l *Loop) Start() {
	if l.state == Running {
		return
	}
	l.state = Running
	l.accumulator = l.interval
	l.logger.Debug("simulation started", "generation", l.generation)
}

// Stop switches to Idle and drops any accumulated time. A computation already
// in flight still commits when it arrives, but nothing new is scheduled.
func (l *Loop) Stop() {
	if l.state == Idle {
		return
	}
	l.state = Idle
	l.accumulator = 0
	l.logger.Debug("simulation stopped", "generation", l.generation)
}

// ToggleRunning starts an idle loop and stops a running one
func (l *Loop) ToggleRunning() {
	if l.state == Running {
		l.Stop()
		return
	}
	l.Start()
}

// Frame advances the schedule by elapsed real time. It applies a finished
// computation, then, while running, requests at most one new step once a full
// interval has accumulated. Leftover time carries to later frames. It reports
// whether a generation was committed.
func (l *Loop) Frame(elapsed time.Duration) bool {
	committed := l.collect()
	if l.state != Running {
		return committed
	}

	l.accumulator += elapsed
	if l.accumulator >= l.interval {
		l.accumulator -= l.interval
		l.request()
	}
	return l.collect() || committed
}

// Step requests a single generation outside the schedule. With an inline
// computer the generation is committed before Step returns.
func (l *Loop) Step() error {
	l.collect()
	if l.call != nil {
		return errors.Wrap(ErrStepInFlight, "[Loop.Step]")
	}
	if !l.request() {
		return errors.Wrap(l.err, "[Loop.Step] dispatch failed")
	}
	l.collect()
	return nil
}

// Wait blocks until the in-flight computation, if any, has been applied
func (l *Loop) Wait(ctx context.Context) error {
	if l.call == nil {
		return nil
	}
	res, err := l.call.Wait(ctx)
	if err != nil {
		return errors.Wrap(err, "[Loop.Wait]")
	}
	l.call = nil
	l.apply(res)
	return nil
}

// request dispatches a computation of the current grid unless one is pending
func (l *Loop) request() bool {
	if l.call != nil {
		l.dropped++
		l.logger.Debug("step request dropped, computation in flight", "generation", l.generation)
		return false
	}
	call, err := l.computer.Dispatch(l.history.Current())
	if err != nil {
		l.err = err
		l.logger.Error("step dispatch failed", "generation", l.generation, "error", err)
		l.Stop()
		return false
	}
	l.call = call
	l.callRevision = l.revision
	return true
}

// collect applies the in-flight result if it has arrived
func (l *Loop) collect() bool {
	if l.call == nil {
		return false
	}
	res, ok := l.call.TryResult()
	if !ok {
		return false
	}
	l.call = nil
	return l.apply(res)
}

// apply classifies the candidate against the window before shifting it, then
// commits, counts, samples and notifies.
func (l *Loop) apply(res compute.Result) bool {
	if res.Err != nil {
		l.err = res.Err
		l.logger.Error("step computation failed", "generation", l.generation, "error", res.Err)
		l.Stop()
		return false
	}
	if l.callRevision != l.revision {
		l.logger.Debug("discarding step computed before an edit", "generation", l.generation)
		return false
	}

	class := l.history.Classify(res.Grid)
	l.history.Shift(res.Grid)
	l.generation++
	l.sampler.Record(res.Elapsed)
	l.notifyCommit()

	if class != stability.None && l.state == Running {
		l.Stop()
		ev := StabilityEvent{Generation: l.generation, Classification: class}
		l.logger.Info("stable configuration detected",
			"generation", ev.Generation,
			"classification", ev.Classification.String(),
			"population", res.Grid.CountLivingCells(),
			"grid_hash", res.Grid.Hash(),
		)
		for _, o := range l.observers {
			o.StabilityDetected(ev)
		}
	}
	return true
}

// Toggle inverts one cell. Coordinates outside the grid fail with model.ErrOutOfBounds.
func (l *Loop) Toggle(row, col int) error {
	next, err := l.history.Current().Toggle(model.Coord{Row: row, Col: col})
	if err != nil {
		return errors.Wrap(err, "[Loop.Toggle]")
	}
	l.replace(next)
	return nil
}

// Randomize replaces the board with cells alive at the given probability
func (l *Loop) Randomize(probability float64) {
	cur := l.history.Current()
	l.replace(model.Randomize(cur.Rows(), cur.Cols(), probability, l.rng))
}

// Replace swaps in g, which must match the session dimensions
func (l *Loop) Replace(g *model.Grid) error {
	cur := l.history.Current()
	if g == nil || g.Rows() != cur.Rows() || g.Cols() != cur.Cols() {
		return errors.Wrapf(model.ErrMalformedGrid, "[Loop.Replace] grid does not match %dx%d session",
			cur.Rows(), cur.Cols())
	}
	l.replace(g)
	return nil
}

// Reset stops the loop, clears the board and zeroes the generation counter
func (l *Loop) Reset() {
	l.Stop()
	cur := l.history.Current()
	l.generation = 0
	l.err = nil
	l.replace(model.NewGrid(cur.Rows(), cur.Cols()))
}

func (l *Loop) replace(g *model.Grid) {
	l.revision++
	l.history.Reset(g)
	l.notifyCommit()
}

func (l *Loop) notifyCommit() {
	g := l.history.Current()
	for _, o := range l.observers {
		o.GridCommitted(g, l.generation)
	}
}

// Observe registers another render collaborator
func (l *Loop) Observe(o Observer) {
	WithObserver(o)(l)
}

// Close releases the computer. Safe to call more than once.
func (l *Loop) Close() error {
	return errors.Wrap(l.computer.Close(), "[Loop.Close]")
}

// Grid returns the current generation
func (l *Loop) Grid() *model.Grid { return l.history.Current() }

// Generation returns the number of committed steps since the last reset
func (l *Loop) Generation() uint64 { return l.generation }

// State returns the run state
func (l *Loop) State() RunState { return l.state }

// Running reports whether the loop is stepping on its own
func (l *Loop) Running() bool { return l.state == Running }

// InFlight reports whether a computation is pending
func (l *Loop) InFlight() bool { return l.call != nil }

// Dropped returns the number of step requests dropped while a computation was pending
func (l *Loop) Dropped() int { return l.dropped }

// Sampler returns the step timing sampler
func (l *Loop) Sampler() *utils.Sampler { return l.sampler }

// Err returns the last dispatch or computation failure, cleared by Reset
func (l *Loop) Err() error { return l.err }
