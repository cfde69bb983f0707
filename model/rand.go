package model

import "math/rand/v2"

// DefaultProbability is the chance of a cell starting alive when randomizing
const DefaultProbability = 0.5

// Rand is the random source used to populate grids. *rand.Rand satisfies it,
// and tests substitute deterministic sources.
type Rand interface {
	Float64() float64
}

// NewRand returns a deterministic PCG source seeded with seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Randomize returns a new grid where each cell is independently alive with
// the given probability. A nil rng uses the package-level generator.
func Randomize(rows, cols int, probability float64, rng Rand) *Grid {
	if rng == nil {
		rng = globalRand{}
	}
	g := NewGrid(rows, cols)
	for r := range g.rows {
		for c := range g.cols {
			g.cells[r][c] = rng.Float64() < probability
		}
	}
	return g
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }
