package mines

import (
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"
)

var Log = logrus.New()

type Status int8

const (
	InProgress Status = iota
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "Status(" + strconv.Itoa(int(s)) + ")"
	}
}

// Status implements [encoding.TextMarshaler]
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "in_progress":
		*s = InProgress
	case "won":
		*s = Won
	case "lost":
		*s = Lost
	default:
		return fmt.Errorf("invalid status %q", text)
	}
	return nil
}

func (s Status) Terminal() bool {
	return s == Won || s == Lost
}

// SquareState is the player-visible view of one square. Mine is only set
// once the square is uncovered or the game has ended; AdjacentMines only
// once the square is uncovered.
type SquareState struct {
	Point
	Visibility    Visibility `json:"visibility"`
	Mine          *bool      `json:"mine,omitempty"`
	AdjacentMines *int       `json:"adjacent_mines,omitempty"`
}

type gameConfig struct {
	rnd       *rand.Rand
	safeStart bool
}

type Option func(*gameConfig)

func WithRand(r *rand.Rand) Option {
	return func(c *gameConfig) {
		c.rnd = r
	}
}

func WithSeed(seed uint64) Option {
	return WithRand(SeededRand(seed))
}

// WithFirstClickSafe defers mine placement until the first reveal and
// keeps mines off the revealed square and, space permitting, its
// neighbors.
func WithFirstClickSafe() Option {
	return func(c *gameConfig) {
		c.safeStart = true
	}
}

// Game applies player actions to a board it owns exclusively. It holds
// no locks; callers serialize access.
type Game struct {
	params GameParams
	board  *Board
	status Status
	placed bool
	rnd    *rand.Rand
}

// NewGame validates the parameters and builds the board. With
// [WithFirstClickSafe] the mines are placed on the first reveal instead.
func NewGame(width, height, mineCount int, opts ...Option) (*Game, error) {
	return NewGameWithParams(GameParams{
		Width:     width,
		Height:    height,
		MineCount: mineCount,
	}, opts...)
}

func NewGameWithParams(params GameParams, opts ...Option) (*Game, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	cfg := gameConfig{safeStart: params.SafeStart}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rnd == nil {
		cfg.rnd = NewRand()
	}
	params.SafeStart = cfg.safeStart

	g := &Game{
		params: params,
		status: InProgress,
		rnd:    cfg.rnd,
	}

	if params.SafeStart {
		g.board = newBoard(params)
		return g, nil
	}

	board, err := NewBoard(params.Width, params.Height, params.MineCount, cfg.rnd)
	if err != nil {
		return nil, err
	}
	g.board = board
	g.placed = true
	return g, nil
}

// NewGameFromBoard starts a game on an already generated board, such as
// one returned by [ParseLayout]. The game takes ownership of b.
func NewGameFromBoard(b *Board) *Game {
	return &Game{
		params: GameParams{
			Width:     b.width,
			Height:    b.height,
			MineCount: b.mineCount,
		},
		board:  b,
		status: InProgress,
		placed: true,
		rnd:    NewRand(),
	}
}

func (g *Game) Status() Status {
	return g.status
}

func (g *Game) Over() bool {
	return g.status.Terminal()
}

// Params returns a copy of the parameters the game was created with.
func (g *Game) Params() GameParams {
	return g.params
}

func (g *Game) Width() int {
	return g.board.width
}

func (g *Game) Height() int {
	return g.board.height
}

func (g *Game) MineCount() int {
	return g.board.mineCount
}

// playable is the common precondition of every mutating action.
func (g *Game) playable(p Point) error {
	if g.Over() {
		return fmt.Errorf("%w: game already %s", ErrGameOver, g.status)
	}
	return g.board.check(p)
}

// place runs the deferred generation of a first-click-safe game.
func (g *Game) place(start Point) {
	if g.placed {
		return
	}

	exclude := append(g.board.Neighbors(start), start)
	if g.board.width*g.board.height-len(exclude) < g.board.mineCount {
		exclude = []Point{start}
	}
	// cannot fail: MineCount < Area leaves room next to start
	if err := g.board.placeMines(g.rnd, exclude); err != nil {
		panic(err)
	}
	g.board.countAdjacent()
	g.placed = true

	Log.WithFields(logrus.Fields{
		"board": g.params.String(),
		"start": start.String(),
	}).Debug("board generated around first reveal")
}

// ToggleFlag flips a covered square to flagged and back.
func (g *Game) ToggleFlag(p Point) (SquareState, error) {
	if err := g.playable(p); err != nil {
		return SquareState{}, err
	}

	sq := g.board.square(p)
	switch sq.visibility {
	case Covered:
		sq.setVisibility(Flagged)
	case Flagged:
		sq.setVisibility(Covered)
	default:
		return SquareState{}, fmt.Errorf(
			"%w: cannot flag uncovered square %s", ErrInvalidTransition, p,
		)
	}
	return g.state(p), nil
}

// Reveal uncovers the square at p and, when it has no mined neighbors,
// the connected zero region around it. It returns the squares whose
// visibility changed. Revealing an uncovered square changes nothing.
func (g *Game) Reveal(p Point) ([]SquareState, error) {
	if err := g.playable(p); err != nil {
		return nil, err
	}

	switch g.board.square(p).visibility {
	case Flagged:
		return nil, fmt.Errorf("%w: unflag %s before revealing it", ErrTileFlagged, p)
	case Uncovered:
		return []SquareState{}, nil
	}

	g.place(p)
	opened := g.open(p)
	g.settle()
	return g.states(opened), nil
}

// Chord reveals every covered neighbor of an uncovered number once the
// player has flagged as many neighbors as the number says. With any
// other flag count nothing happens.
func (g *Game) Chord(p Point) ([]SquareState, error) {
	if err := g.playable(p); err != nil {
		return nil, err
	}

	sq := g.board.square(p)
	if sq.visibility != Uncovered {
		return nil, fmt.Errorf(
			"%w: cannot chord %s square %s", ErrInvalidTransition, sq.visibility, p,
		)
	}

	flags := 0
	targets := make([]Point, 0, 8)
	g.board.eachNeighbor(p, func(n Point) {
		switch g.board.square(n).visibility {
		case Flagged:
			flags++
		case Covered:
			targets = append(targets, n)
		}
	})
	if flags != sq.adjacent {
		return []SquareState{}, nil
	}

	var opened []Point
	for _, n := range targets {
		// an earlier cascade may already have opened it
		if g.board.square(n).visibility != Covered {
			continue
		}
		opened = append(opened, g.open(n)...)
		if g.status == Lost {
			break
		}
	}
	g.settle()
	return g.states(opened), nil
}

/*
 * Uncover p. A mine ends the game on the spot; a zero square floods
 * outwards breadth-first. Squares are uncovered before they are queued,
 * so none is queued twice and the walk is bounded by the board size.
 * Flagged squares stop the flood without being touched.
 */
func (g *Game) open(p Point) []Point {
	sq := g.board.square(p)
	sq.setVisibility(Uncovered)
	opened := []Point{p}

	if sq.mine {
		g.status = Lost
		return opened
	}
	if sq.adjacent > 0 {
		return opened
	}

	queue := deque.New[Point]()
	queue.PushBack(p)
	for queue.Len() > 0 {
		g.board.eachNeighbor(queue.PopFront(), func(n Point) {
			nsq := g.board.square(n)
			if nsq.visibility != Covered || nsq.mine {
				return
			}
			nsq.setVisibility(Uncovered)
			opened = append(opened, n)
			if nsq.adjacent == 0 {
				queue.PushBack(n)
			}
		})
	}
	return opened
}

// settle derives the outcome after a reveal.
func (g *Game) settle() {
	if g.status == InProgress && g.board.cleared() {
		g.status = Won
	}
	if g.Over() {
		Log.WithFields(logrus.Fields{
			"board":  g.params.String(),
			"status": g.status.String(),
		}).Debug("game over")
	}
}

// SquareState returns the player view of the square at p.
func (g *Game) SquareState(p Point) (SquareState, error) {
	if err := g.board.check(p); err != nil {
		return SquareState{}, err
	}
	return g.state(p), nil
}

func (g *Game) state(p Point) SquareState {
	sq := g.board.square(p)
	st := SquareState{Point: p, Visibility: sq.visibility}
	if sq.visibility == Uncovered || g.Over() {
		mine := sq.mine
		st.Mine = &mine
	}
	if sq.visibility == Uncovered {
		adjacent := sq.adjacent
		st.AdjacentMines = &adjacent
	}
	return st
}

func (g *Game) states(points []Point) []SquareState {
	states := make([]SquareState, 0, len(points))
	for _, p := range points {
		states = append(states, g.state(p))
	}
	return states
}

// Snapshot returns the player view of every square in row-major order.
func (g *Game) Snapshot() []SquareState {
	states := make([]SquareState, 0, g.board.width*g.board.height)
	for row := range g.board.height {
		for col := range g.board.width {
			states = append(states, g.state(Point{Row: row, Col: col}))
		}
	}
	return states
}

func (g *Game) FlagCount() (count int) {
	for _, row := range g.board.squares {
		for _, sq := range row {
			if sq.visibility == Flagged {
				count++
			}
		}
	}
	return
}

// RemainingMines is the mine count minus placed flags. It goes negative
// when the player over-flags.
func (g *Game) RemainingMines() int {
	return g.board.mineCount - g.FlagCount()
}

// Game implements [fmt.Stringer]
func (g *Game) String() string {
	return g.board.squares.ToString(g.Over())
}
