package handlers

import (
	"fmt"
	"net/url"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}

func decodeQuery(dst any, query url.Values) error {
	if err := decoder.Decode(dst, query); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

type CreateNewGameDTO struct {
	mines.GameParams
	Seed *uint64 `schema:"seed"`
}

func ParseCreateNewGameDTO(query url.Values) (CreateNewGameDTO, error) {
	var dto CreateNewGameDTO
	err := decodeQuery(&dto, query)
	return dto, err
}

func (dto CreateNewGameDTO) Options() []mines.Option {
	var opts []mines.Option
	if dto.Seed != nil {
		opts = append(opts, mines.WithSeed(*dto.Seed))
	}
	return opts
}

func ParsePosition(query url.Values) (mines.Point, error) {
	var p mines.Point
	err := decodeQuery(&p, query)
	return p, err
}

type GameDTO struct {
	GameId         string              `json:"game_id"`
	Status         mines.Status        `json:"status"`
	Width          int                 `json:"width"`
	Height         int                 `json:"height"`
	MineCount      int                 `json:"mine_count"`
	FirstClickSafe bool                `json:"first_click_safe"`
	RemainingMines int                 `json:"remaining_mines"`
	Squares        []mines.SquareState `json:"squares"`
}

func NewGameDTO(gameId string, g *mines.Game) *GameDTO {
	return &GameDTO{
		GameId:         gameId,
		Status:         g.Status(),
		Width:          g.Width(),
		Height:         g.Height(),
		MineCount:      g.MineCount(),
		FirstClickSafe: g.Params().SafeStart,
		RemainingMines: g.RemainingMines(),
		Squares:        g.Snapshot(),
	}
}

type CreatedGameDTO struct {
	Token string `json:"token"`
	*GameDTO
}

type MoveResultDTO struct {
	Status         mines.Status        `json:"status"`
	RemainingMines int                 `json:"remaining_mines"`
	Changed        []mines.SquareState `json:"changed"`
}

type Move string

const (
	Reveal Move = "reveal"
	Flag   Move = "flag"
	Chord  Move = "chord"
)

// applyMove runs one player action and collects the outcome.
func applyMove(g *mines.Game, move Move, p mines.Point) (*MoveResultDTO, error) {
	var (
		changed []mines.SquareState
		err     error
	)
	switch move {
	case Reveal:
		changed, err = g.Reveal(p)
	case Chord:
		changed, err = g.Chord(p)
	case Flag:
		var st mines.SquareState
		st, err = g.ToggleFlag(p)
		changed = []mines.SquareState{st}
	default:
		return nil, fmt.Errorf("%w: unknown move %q", errBadRequest, move)
	}
	if err != nil {
		return nil, err
	}
	if changed == nil {
		changed = []mines.SquareState{}
	}
	return &MoveResultDTO{
		Status:         g.Status(),
		RemainingMines: g.RemainingMines(),
		Changed:        changed,
	}, nil
}
