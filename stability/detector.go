// Package stability recognizes boards that stopped evolving: still lifes and
// period-2 oscillators.
package stability

import "github.com/sheikhrachel/go-life/model"

// Classification is the outcome of comparing a candidate generation with the
// two generations before it.
type Classification int

const (
	None Classification = iota
	StillLife
	Period2
)

func (c Classification) String() string {
	switch c {
	case StillLife:
		return "still_life"
	case Period2:
		return "period_2"
	default:
		return "none"
	}
}

// Classify compares candidate, the grid about to be committed, with prev1
// (the grid it replaces) and prev2 (the one before that, possibly nil).
// StillLife is checked first.
func Classify(candidate, prev1, prev2 *model.Grid) Classification {
	if candidate.Equal(prev1) {
		return StillLife
	}
	if prev2 != nil && candidate.Equal(prev2) {
		return Period2
	}
	return None
}

// History holds the committed generation and its predecessor.
type History struct {
	current  *model.Grid
	previous *model.Grid
}

// NewHistory starts a window with current and no predecessor
func NewHistory(current *model.Grid) History {
	return History{current: current}
}

// Current returns the most recently committed grid
func (h *History) Current() *model.Grid { return h.current }

// Previous returns the grid committed before Current, or nil
func (h *History) Previous() *model.Grid { return h.previous }

// Classify runs Classify against the window as it stands, before any shift
func (h *History) Classify(candidate *model.Grid) Classification {
	return Classify(candidate, h.current, h.previous)
}

// Shift moves the window forward: previous <- current, current <- next
func (h *History) Shift(next *model.Grid) {
	h.previous = h.current
	h.current = next
}

// Reset replaces the current grid and forgets the predecessor
func (h *History) Reset(current *model.Grid) {
	h.current = current
	h.previous = nil
}
