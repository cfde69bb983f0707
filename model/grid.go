package model

import (
	"crypto/md5"
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/rules"
)

// Grid is one generation of the board. A Grid is never modified after it has
// been handed out: every mutation returns a new Grid, so older generations can
// be held for comparison.
type Grid struct {
	rows  int
	cols  int
	cells [][]bool
}

// NewGrid creates an all-dead grid with the specified dimensions. A board
// always has at least one row and one column: non-positive dimensions are
// raised to 1. Use FromCells to reject bad input instead.
func NewGrid(rows, cols int) *Grid {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	cells := make([][]bool, rows)
	for i := range cells {
		cells[i] = make([]bool, cols)
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: cells,
	}
}

// FromCells builds a grid from a copy of the given matrix
func FromCells(cells [][]bool) (*Grid, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, errors.Wrap(ErrMalformedGrid, "[FromCells] empty matrix")
	}
	cols := len(cells[0])
	g := NewGrid(len(cells), cols)
	for r, row := range cells {
		if len(row) != cols {
			return nil, errors.Wrapf(ErrMalformedGrid, "[FromCells] row %d has %d cells, want %d", r, len(row), cols)
		}
		copy(g.cells[r], row)
	}
	return g, nil
}

// Rows returns the number of rows of the grid
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns of the grid
func (g *Grid) Cols() int {
	return g.cols
}

// InBounds reports whether c addresses a cell of the grid
func (g *Grid) InBounds(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

// Get returns the state of a cell; cells outside the grid are dead
func (g *Grid) Get(row, col int) bool {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return false
	}
	return g.cells[row][col]
}

// At returns the state of a cell, failing for coordinates outside the grid
func (g *Grid) At(c Coord) (bool, error) {
	if !g.InBounds(c) {
		return false, errors.Wrapf(ErrOutOfBounds, "[At] %v on %dx%d grid", c, g.rows, g.cols)
	}
	return g.cells[c.Row][c.Col], nil
}

// Cells returns a copy of the cell matrix
func (g *Grid) Cells() [][]bool {
	return g.Clone().cells
}

// Clone returns an independent copy of the grid
func (g *Grid) Clone() *Grid {
	next := NewGrid(g.rows, g.cols)
	for r := range g.rows {
		copy(next.cells[r], g.cells[r])
	}
	return next
}

// Equal reports whether both grids have the same dimensions and cell states
func (g *Grid) Equal(other *Grid) bool {
	if g == nil || other == nil {
		return false
	}
	if g == other {
		return true
	}
	if g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] != other.cells[r][c] {
				return false
			}
		}
	}
	return true
}

// Toggle returns a new grid with the cell at c inverted
func (g *Grid) Toggle(c Coord) (*Grid, error) {
	if !g.InBounds(c) {
		return nil, errors.Wrapf(ErrOutOfBounds, "[Toggle] %v on %dx%d grid", c, g.rows, g.cols)
	}
	next := g.Clone()
	next.cells[c.Row][c.Col] = !next.cells[c.Row][c.Col]
	return next, nil
}

// CountNeighbors counts living Moore neighbors; cells past the edge count as dead
func (g *Grid) CountNeighbors(row, col int) int {
	count := 0
	for _, off := range rules.NeighborOffsets {
		r, c := row+off[0], col+off[1]
		if r < 0 || r >= g.rows || c < 0 || c >= g.cols {
			continue
		}
		if g.cells[r][c] {
			count++
		}
	}
	return count
}

// NextGeneration calculates the next generation row by row on the calling goroutine
func (g *Grid) NextGeneration() *Grid {
	next := NewGrid(g.rows, g.cols)
	g.evolveRows(next, 0, g.rows)
	return next
}

// NextGenerationParallel calculates the next generation, splitting rows across workers.
// A non-positive worker count uses one worker per CPU.
func (g *Grid) NextGenerationParallel(workers int) *Grid {
	next := NewGrid(g.rows, g.cols)

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var (
		eg            errgroup.Group
		rowsPerWorker = (g.rows + workers - 1) / workers // Ceiling division
	)

	for i := range workers {
		var (
			startRow = i * rowsPerWorker
			endRow   = min(startRow+rowsPerWorker, g.rows)
		)
		if startRow >= g.rows {
			break
		}

		eg.Go(func() error {
			g.evolveRows(next, startRow, endRow)
			return nil
		})
	}

	// workers never fail; Wait is only a barrier
	_ = eg.Wait()

	return next
}

// evolveRows writes rows [startRow, endRow) of the next generation into next
func (g *Grid) evolveRows(next *Grid, startRow, endRow int) {
	for r := startRow; r < endRow; r++ {
		for c := range g.cols {
			next.cells[r][c] = rules.ApplyConwayRules(g.CountNeighbors(r, c), g.cells[r][c])
		}
	}
}

// CountLivingCells returns the total number of living cells
func (g *Grid) CountLivingCells() (count int) {
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				count++
			}
		}
	}
	return
}

// BoundingBoxSize returns the area of the smallest box holding every living cell
func (g *Grid) BoundingBoxSize() int {
	var (
		minR, maxR, minC, maxC int
		found                  bool
	)
	for r := range g.rows {
		for c := range g.cols {
			if !g.cells[r][c] {
				continue
			}
			if !found {
				minR, maxR, minC, maxC = r, r, c, c
				found = true
				continue
			}
			minR, maxR = min(minR, r), max(maxR, r)
			minC, maxC = min(minC, c), max(maxC, c)
		}
	}
	if !found {
		return 0
	}
	return (maxR - minR + 1) * (maxC - minC + 1)
}

// Hash returns an MD5 fingerprint of the grid state
func (g *Grid) Hash() string {
	h := md5.New()
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				h.Write([]byte{1})
			} else {
				h.Write([]byte{0})
			}
		}
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
