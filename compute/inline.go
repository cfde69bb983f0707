package compute

import (
	"time"

	"github.com/sheikhrachel/go-life/model"
)

// Inline computes each step synchronously inside Dispatch
type Inline struct {
	step StepFunc
	now  func() time.Time
}

// NewInline returns an inline Computer running step
func NewInline(step StepFunc) *Inline {
	if step == nil {
		step = Sequential
	}
	return &Inline{step: step, now: time.Now}
}

// Dispatch computes the next generation before returning; the Call is already resolved
func (in *Inline) Dispatch(g *model.Grid) (*Call, error) {
	start := in.now()
	next := in.step(g)

	reply := make(chan message, 1)
	reply <- message{grid: next, elapsed: in.now().Sub(start)}
	return newCall(reply, g), nil
}

// Close is a no-op
func (in *Inline) Close() error { return nil }
