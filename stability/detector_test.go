package stability

import (
	"testing"

	"github.com/sheikhrachel/go-life/model"
)

func TestClassify(t *testing.T) {
	var (
		block    = model.NewGrid(8, 8).Stamp(model.Block, 2, 2)
		blinkerH = model.NewGrid(8, 8).Stamp(model.Blinker, 3, 3)
		blinkerV = blinkerH.NextGeneration()
		glider   = model.NewGrid(8, 8).Stamp(model.Glider, 1, 1)
	)

	tests := []struct {
		name                    string
		candidate, prev1, prev2 *model.Grid
		want                    Classification
	}{
		{"still life", block.NextGeneration(), block, nil, StillLife},
		{"period two", blinkerH, blinkerV, blinkerH, Period2},
		{"no predecessor", blinkerV, blinkerH, nil, None},
		{"evolving", glider.NextGeneration(), glider, nil, None},
		// identical to both: still life wins
		{"still life beats period two", block, block, block, StillLife},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.candidate, tt.prev1, tt.prev2); got != tt.want {
				t.Fatalf("Classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistoryComparesBeforeShift(t *testing.T) {
	blinker := model.NewGrid(8, 8).Stamp(model.Blinker, 3, 3)
	h := NewHistory(blinker)

	next := blinker.NextGeneration()
	if c := h.Classify(next); c != None {
		t.Fatalf("first step classified %v", c)
	}
	h.Shift(next)
	if h.Previous() != blinker || h.Current() != next {
		t.Fatal("Shift did not advance the window")
	}

	back := next.NextGeneration()
	if c := h.Classify(back); c != Period2 {
		t.Fatalf("second step classified %v, want period_2", c)
	}
}

func TestHistoryResetForgetsPredecessor(t *testing.T) {
	blinker := model.NewGrid(8, 8).Stamp(model.Blinker, 3, 3)
	h := NewHistory(blinker)
	h.Shift(blinker.NextGeneration())
	h.Reset(h.Current())
	if h.Previous() != nil {
		t.Fatal("Reset kept the predecessor")
	}
	if c := h.Classify(blinker); c != None {
		t.Fatalf("classified %v against a forgotten generation", c)
	}
}
