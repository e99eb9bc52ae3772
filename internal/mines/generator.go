package mines

import (
	"fmt"
	"math"
)

/* ----------------------------------------------------------------------
 * Board parameters and their validation.
 */

type GameParams struct {
	Width     int  `json:"width" schema:"width,required"`
	Height    int  `json:"height" schema:"height,required"`
	MineCount int  `json:"mine_count" schema:"mine_count,required"`
	SafeStart bool `json:"first_click_safe" schema:"first_click_safe"`
}

func (p GameParams) Unpack() (w int, h int, mc int) {
	return p.Width, p.Height, p.MineCount
}

func (p GameParams) Area() int {
	return p.Width * p.Height
}

// Validate reports [ErrInvalidConfiguration] unless both dimensions are
// positive, their product fits in an int and at least one square is left
// without a mine.
func (p GameParams) Validate() error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf(
			"%w: dimensions must be positive, got %dx%d",
			ErrInvalidConfiguration, p.Width, p.Height,
		)
	}
	if p.Width > math.MaxInt/p.Height {
		return fmt.Errorf(
			"%w: %dx%d board is too large",
			ErrInvalidConfiguration, p.Width, p.Height,
		)
	}
	if p.MineCount < 0 || p.MineCount >= p.Area() {
		return fmt.Errorf(
			"%w: mine count %d not in [0, %d)",
			ErrInvalidConfiguration, p.MineCount, p.Area(),
		)
	}
	return nil
}

func (p GameParams) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Width, p.Height, p.MineCount)
}
