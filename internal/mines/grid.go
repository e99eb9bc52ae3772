package mines

import (
	"fmt"
	"strconv"
	"strings"
)

// Visibility is what the player currently sees of a square.
type Visibility int8

const (
	Covered Visibility = iota
	Flagged
	Uncovered
)

func (v Visibility) String() string {
	switch v {
	case Covered:
		return "covered"
	case Flagged:
		return "flagged"
	case Uncovered:
		return "uncovered"
	default:
		return "Visibility(" + strconv.Itoa(int(v)) + ")"
	}
}

// Visibility implements [encoding.TextMarshaler]
func (v Visibility) MarshalText() ([]byte, error) {
	switch v {
	case Covered, Flagged, Uncovered:
		return []byte(v.String()), nil
	default:
		return nil, fmt.Errorf("invalid visibility %d", v)
	}
}

func (v *Visibility) UnmarshalText(text []byte) error {
	switch string(text) {
	case "covered":
		*v = Covered
	case "flagged":
		*v = Flagged
	case "uncovered":
		*v = Uncovered
	default:
		return fmt.Errorf("invalid visibility %q", text)
	}
	return nil
}

// Point addresses a square by row and column.
type Point struct {
	Row int `json:"row" schema:"row,required"`
	Col int `json:"col" schema:"col,required"`
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Square is one cell of a board. Mine presence and adjacency count are
// fixed when the board is generated; only visibility changes afterwards.
type Square struct {
	mine       bool
	adjacent   int
	visibility Visibility
}

func (s Square) HasMine() bool {
	return s.mine
}

// AdjacentMines is the number of mined neighbors. Always 0 for a mined
// square.
func (s Square) AdjacentMines() int {
	return s.adjacent
}

func (s Square) Visibility() Visibility {
	return s.visibility
}

func (s *Square) setVisibility(v Visibility) {
	s.visibility = v
}

// symbol is the player-view glyph used by [Game.String].
func (s Square) symbol(disclose bool) string {
	switch {
	case s.visibility == Flagged:
		return "F"
	case s.visibility == Uncovered && s.mine:
		return "*"
	case s.visibility == Uncovered && s.adjacent == 0:
		return "."
	case s.visibility == Uncovered:
		return strconv.Itoa(s.adjacent)
	case disclose && s.mine:
		return "o"
	default:
		return "#"
	}
}

type grid [][]Square

func newGrid(width, height int) grid {
	g := make(grid, height)
	for row := range g {
		g[row] = make([]Square, width)
	}
	return g
}

func (g grid) ToString(disclose bool) string {
	var b strings.Builder
	for _, row := range g {
		for col, sq := range row {
			if col > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(sq.symbol(disclose))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
