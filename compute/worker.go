package compute

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/model"
)

type request struct {
	payload []byte
	reply   chan<- message
}

// Worker computes steps on its own goroutine. Grids cross the boundary only in
// serialized form, so the worker never shares memory with the coordinator.
type Worker struct {
	step   StepFunc
	logger *slog.Logger

	// mu guards closed and every send on requests
	mu       sync.Mutex
	closed   bool
	requests chan request
	quit     chan struct{}
	stopped  chan struct{}

	closeOnce sync.Once
}

// StartWorker launches the worker goroutine. It stops when ctx is done or Close is called.
func StartWorker(ctx context.Context, step StepFunc, logger *slog.Logger) (*Worker, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(ErrComputationUnavailable, "[StartWorker] context already done: %v", err)
	}
	if step == nil {
		return nil, errors.Wrap(ErrComputationUnavailable, "[StartWorker] no step function")
	}
	if logger == nil {
		logger = slog.Default()
	}

	w := &Worker{
		step:     step,
		logger:   logger,
		requests: make(chan request, 1),
		quit:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	go w.run(ctx)
	logger.Debug("computation worker started")
	return w, nil
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.stopped)
	defer w.shutdown()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.quit:
			return
		case req := <-w.requests:
			req.reply <- w.handle(req.payload)
		}
	}
}

// shutdown refuses new requests and answers the ones already queued, so every
// accepted Dispatch still resolves.
func (w *Worker) shutdown() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	for {
		select {
		case req := <-w.requests:
			req.reply <- message{err: errors.Wrap(ErrWorkerClosed, "[Worker.shutdown] request not computed")}
		default:
			w.logger.Debug("computation worker stopped")
			return
		}
	}
}

func (w *Worker) handle(payload []byte) message {
	start := time.Now()
	grid, err := model.DecodeGrid(payload)
	if err != nil {
		return message{err: errors.Wrap(err, "[Worker.handle] decoding request")}
	}
	next := w.step(grid)
	return message{payload: model.EncodeGrid(next), elapsed: time.Since(start)}
}

// Dispatch sends a serialized copy of g to the worker. It never blocks: a
// request made while another is queued fails with ErrBusy.
func (w *Worker) Dispatch(g *model.Grid) (*Call, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil, errors.Wrap(ErrWorkerClosed, "[Worker.Dispatch]")
	}

	reply := make(chan message, 1)
	select {
	case w.requests <- request{payload: model.EncodeGrid(g), reply: reply}:
		return newCall(reply, g), nil
	default:
		return nil, errors.Wrap(ErrBusy, "[Worker.Dispatch]")
	}
}

// Close stops the worker goroutine and waits for it to exit
func (w *Worker) Close() error {
	w.closeOnce.Do(func() { close(w.quit) })
	<-w.stopped
	return nil
}
