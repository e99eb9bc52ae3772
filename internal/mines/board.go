package mines

import (
	"fmt"
	"math/rand/v2"
)

// Board is the fixed grid of squares of one game. The shape and the mine
// layout never change after construction; the owning [Game] is the only
// writer of square visibility.
type Board struct {
	width, height int
	mineCount     int
	squares       grid
}

// NewBoard places mineCount mines uniformly at random and then derives
// every adjacency count from the finished layout.
func NewBoard(width, height, mineCount int, r *rand.Rand) (*Board, error) {
	params := GameParams{Width: width, Height: height, MineCount: mineCount}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b := newBoard(params)
	if err := b.placeMines(r, nil); err != nil {
		return nil, err
	}
	b.countAdjacent()

	Log.WithField("board", params.String()).Debug("board generated")
	return b, nil
}

func newBoard(p GameParams) *Board {
	return &Board{
		width:     p.Width,
		height:    p.Height,
		mineCount: p.MineCount,
		squares:   newGrid(p.Width, p.Height),
	}
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

func (b *Board) MineCount() int {
	return b.mineCount
}

func (b *Board) Contains(p Point) bool {
	return 0 <= p.Row && p.Row < b.height && 0 <= p.Col && p.Col < b.width
}

func (b *Board) check(p Point) error {
	if !b.Contains(p) {
		return &CoordinateError{Point: p, Width: b.width, Height: b.height}
	}
	return nil
}

// At returns a copy of the square at p.
func (b *Board) At(p Point) (Square, error) {
	if err := b.check(p); err != nil {
		return Square{}, err
	}
	return *b.square(p), nil
}

// square skips the bounds check; callers validate p first.
func (b *Board) square(p Point) *Square {
	return &b.squares[p.Row][p.Col]
}

// eachNeighbor calls fn for every in-bounds square of the 8-neighborhood
// of p. It is the only place neighbor offsets are spelled out.
func (b *Board) eachNeighbor(p Point, fn func(Point)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Point{Row: p.Row + dr, Col: p.Col + dc}
			if b.Contains(n) {
				fn(n)
			}
		}
	}
}

func (b *Board) Neighbors(p Point) []Point {
	neighbors := make([]Point, 0, 8)
	b.eachNeighbor(p, func(n Point) {
		neighbors = append(neighbors, n)
	})
	return neighbors
}

func (b *Board) index(p Point) int {
	return p.Row*b.width + p.Col
}

func (b *Board) point(i int) Point {
	return Point{Row: i / b.width, Col: i % b.width}
}

/*
 * First pass: pick mineCount squares off the candidate list at random
 * without replacement. Squares listed in exclude are never candidates.
 */
func (b *Board) placeMines(r *rand.Rand, exclude []Point) error {
	skip := make(map[int]struct{}, len(exclude))
	for _, p := range exclude {
		skip[b.index(p)] = struct{}{}
	}

	candidates := make([]int, 0, b.width*b.height)
	for i := range b.width * b.height {
		if _, ok := skip[i]; !ok {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) < b.mineCount {
		return fmt.Errorf(
			"%w: %d mines do not fit in %d candidate squares",
			ErrInvalidConfiguration, b.mineCount, len(candidates),
		)
	}

	k := len(candidates)
	for range b.mineCount {
		i := r.IntN(k)
		b.square(b.point(candidates[i])).mine = true
		k--
		candidates[i] = candidates[k]
	}
	return nil
}

/*
 * Second pass: derive adjacency counts from the complete layout. Never
 * run this before every mine is in place.
 */
func (b *Board) countAdjacent() {
	for row := range b.height {
		for col := range b.width {
			p := Point{Row: row, Col: col}
			sq := b.square(p)
			sq.adjacent = 0
			if sq.mine {
				continue
			}
			b.eachNeighbor(p, func(n Point) {
				if b.square(n).mine {
					sq.adjacent++
				}
			})
		}
	}
}

// cleared reports whether every square without a mine is uncovered.
// It is evaluated from scratch on every call.
func (b *Board) cleared() bool {
	for _, row := range b.squares {
		for _, sq := range row {
			if !sq.mine && sq.visibility != Uncovered {
				return false
			}
		}
	}
	return true
}

func (b *Board) String() string {
	return b.squares.ToString(true)
}

// ParseLayout builds a board from rows of '*' (mine) and '.' (safe)
// characters. All rows must have the same length.
func ParseLayout(rows ...string) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidConfiguration)
	}

	params := GameParams{Width: len(rows[0]), Height: len(rows)}
	b := newBoard(params)
	for row, line := range rows {
		if len(line) != params.Width {
			return nil, fmt.Errorf(
				"%w: layout row %d has %d squares, want %d",
				ErrInvalidConfiguration, row, len(line), params.Width,
			)
		}
		for col, ch := range line {
			switch ch {
			case '*':
				b.squares[row][col].mine = true
				b.mineCount++
			case '.':
			default:
				return nil, fmt.Errorf(
					"%w: unexpected %q at %d:%d",
					ErrInvalidConfiguration, ch, row, col,
				)
			}
		}
	}

	params.MineCount = b.mineCount
	if err := params.Validate(); err != nil {
		return nil, err
	}
	b.countAdjacent()
	return b, nil
}
