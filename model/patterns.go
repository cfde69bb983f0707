package model

import "github.com/pkg/errors"

// Pattern is a small live/dead template stamped onto a grid
type Pattern [][]bool

var (
	// Block is the 2x2 still life
	Block = Pattern{
		{true, true},
		{true, true},
	}
	// Blinker is the horizontal period-2 oscillator
	Blinker = Pattern{
		{true, true, true},
	}
	// Glider travels one cell diagonally every four generations
	Glider = Pattern{
		{false, true, false},
		{false, false, true},
		{true, true, true},
	}
)

// Stamp returns a new grid with p written at (row, col); cells falling outside the grid are skipped
func (g *Grid) Stamp(p Pattern, row, col int) *Grid {
	next := g.Clone()
	for dr, line := range p {
		for dc, alive := range line {
			r, c := row+dr, col+dc
			if r < 0 || r >= next.rows || c < 0 || c >= next.cols {
				continue
			}
			next.cells[r][c] = alive
		}
	}
	return next
}

// Interesting fills a grid at the given density and drops a few gliders and blinkers on top
func Interesting(rows, cols int, density float64, rng Rand) *Grid {
	g := Randomize(rows, cols, density, rng)

	if g.cols >= 10 && g.rows >= 10 {
		g = g.Stamp(Glider, 5, 5)
		if g.cols >= 20 && g.rows >= 15 {
			g = g.Stamp(Glider, 5, g.cols-8)
		}

		g = g.Stamp(Blinker, g.rows/4, g.cols/4)
		if g.cols >= 30 {
			g = g.Stamp(Blinker, 3*g.rows/4, 3*g.cols/4)
		}
	}
	return g
}

// Seed builds the starting grid named by pattern: random, interesting, empty,
// or a single block, blinker or glider centered on the board
func Seed(pattern string, rows, cols int, density float64, rng Rand) (*Grid, error) {
	empty := NewGrid(rows, cols)
	center := func(p Pattern) *Grid {
		return empty.Stamp(p, (empty.rows-len(p))/2, (empty.cols-len(p[0]))/2)
	}

	switch pattern {
	case "", "random":
		return Randomize(rows, cols, density, rng), nil
	case "interesting":
		return Interesting(rows, cols, density, rng), nil
	case "empty":
		return empty, nil
	case "block":
		return center(Block), nil
	case "blinker":
		return center(Blinker), nil
	case "glider":
		return center(Glider), nil
	}
	return nil, errors.Errorf("[Seed] unknown pattern %q", pattern)
}
