package view

import (
	"image/color"

	"github.com/sheikhrachel/go-life/model"
)

var (
	liveColor = color.RGBA{A: 0xff}
	deadColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
)

// fillRGBA writes one RGBA pixel per cell into buf, row-major
func fillRGBA(buf []byte, g *model.Grid, on, off color.RGBA) {
	i := 0
	for r := range g.Rows() {
		for c := range g.Cols() {
			col := off
			if g.Get(r, c) {
				col = on
			}
			buf[i+0] = col.R
			buf[i+1] = col.G
			buf[i+2] = col.B
			buf[i+3] = col.A
			i += 4
		}
	}
}

// cellAt converts a cursor position in screen pixels to a cell coordinate
func cellAt(x, y, scale int) model.Coord {
	if scale <= 0 {
		scale = 1
	}
	// floor division so positions left of or above the board stay negative
	row, col := y/scale, x/scale
	if y < 0 {
		row = (y - scale + 1) / scale
	}
	if x < 0 {
		col = (x - scale + 1) / scale
	}
	return model.Coord{Row: row, Col: col}
}
