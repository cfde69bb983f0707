package model

import "testing"

func TestStampClipsAtEdges(t *testing.T) {
	g := NewGrid(3, 3).Stamp(Block, 2, 2)
	if n := g.CountLivingCells(); n != 1 {
		t.Fatalf("living cells = %d, want 1", n)
	}
}

func TestSeed(t *testing.T) {
	tests := []struct {
		pattern string
		living  int
	}{
		{"empty", 0},
		{"block", 4},
		{"blinker", 3},
		{"glider", 5},
	}
	for _, tt := range tests {
		g, err := Seed(tt.pattern, 20, 20, 0.5, NewRand(1))
		if err != nil {
			t.Fatalf("Seed(%q): %v", tt.pattern, err)
		}
		if n := g.CountLivingCells(); n != tt.living {
			t.Errorf("Seed(%q) living = %d, want %d", tt.pattern, n, tt.living)
		}
	}

	if _, err := Seed("pulsar", 20, 20, 0.5, nil); err == nil {
		t.Fatal("unknown pattern accepted")
	}
}

func TestInterestingContainsPatterns(t *testing.T) {
	g := Interesting(30, 40, 0, constRand(0.5))
	// two gliders and two blinkers on an otherwise empty board
	if n := g.CountLivingCells(); n != 5+5+3+3 {
		t.Fatalf("living cells = %d, want 16", n)
	}
}
