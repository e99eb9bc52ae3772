package mines

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidConfiguration = errors.New("invalid board configuration")
	ErrOutOfBounds          = errors.New("square out of bounds")
	ErrInvalidTransition    = errors.New("invalid square transition")
	ErrTileFlagged          = errors.New("square is flagged")
	ErrGameOver             = errors.New("game is over")
)

// CoordinateError reports a point that lies outside the board.
type CoordinateError struct {
	Point
	Width, Height int
}

// [CoordinateError] implements [error]
func (e *CoordinateError) Error() string {
	return fmt.Sprintf(
		"%s: %s not in %dx%d board", ErrOutOfBounds, e.Point, e.Width, e.Height,
	)
}

func (e *CoordinateError) Unwrap() error {
	return ErrOutOfBounds
}
