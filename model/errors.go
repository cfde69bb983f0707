package model

import "github.com/pkg/errors"

var (
	// ErrOutOfBounds is returned when a coordinate falls outside [0,rows)x[0,cols).
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	// ErrMalformedGrid is returned when a grid has ragged rows or unexpected dimensions.
	ErrMalformedGrid = errors.New("malformed grid")
)
