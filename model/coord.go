package model

import "fmt"

// Coord addresses a single cell, 0-indexed.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}
