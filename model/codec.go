package model

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// EncodeGrid serializes g as uvarint rows, uvarint cols, then the cells
// row-major packed eight to a byte, least significant bit first.
func EncodeGrid(g *Grid) []byte {
	n := g.rows * g.cols
	buf := make([]byte, 0, 2*binary.MaxVarintLen64+(n+7)/8)
	buf = binary.AppendUvarint(buf, uint64(g.rows))
	buf = binary.AppendUvarint(buf, uint64(g.cols))

	packed := make([]byte, (n+7)/8)
	i := 0
	for r := range g.rows {
		for c := range g.cols {
			if g.cells[r][c] {
				packed[i/8] |= 1 << (i % 8)
			}
			i++
		}
	}
	return append(buf, packed...)
}

// DecodeGrid parses a grid produced by EncodeGrid
func DecodeGrid(data []byte) (*Grid, error) {
	rows, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errors.Wrap(ErrMalformedGrid, "[DecodeGrid] bad row header")
	}
	data = data[n:]
	cols, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errors.Wrap(ErrMalformedGrid, "[DecodeGrid] bad column header")
	}
	data = data[n:]

	if rows == 0 || cols == 0 || rows > 1<<16 || cols > 1<<16 {
		return nil, errors.Wrapf(ErrMalformedGrid, "[DecodeGrid] invalid dimensions %dx%d", rows, cols)
	}
	want := (int(rows)*int(cols) + 7) / 8
	if len(data) != want {
		return nil, errors.Wrapf(ErrMalformedGrid, "[DecodeGrid] %d payload bytes for %dx%d grid, want %d",
			len(data), rows, cols, want)
	}

	g := NewGrid(int(rows), int(cols))
	i := 0
	for r := range g.rows {
		for c := range g.cols {
			g.cells[r][c] = data[i/8]&(1<<(i%8)) != 0
			i++
		}
	}
	return g, nil
}
