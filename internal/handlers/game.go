package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

type GameHandler struct {
	log       logrus.FieldLogger
	sessions  *session.Registry
	jwt       *config.JWT
	ws        *config.WebSocket
	maxWidth  int
	maxHeight int
}

func NewGameHandler(
	log logrus.FieldLogger,
	sessions *session.Registry,
	jwt *config.JWT,
	ws *config.WebSocket,
	cfg *config.App,
) *GameHandler {
	return &GameHandler{
		log:       log,
		sessions:  sessions,
		jwt:       jwt,
		ws:        ws,
		maxWidth:  cfg.MaxWidth,
		maxHeight: cfg.MaxHeight,
	}
}

func parseGameId(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid game id", errBadRequest)
	}
	return id, nil
}

// authorize requires a token issued for the game being modified.
func (g GameHandler) authorize(r *http.Request, id uuid.UUID) error {
	claims, ok := middleware.GameClaims(r.Context())
	if !ok {
		return errUnauthorized
	}
	return claims.Authorize(id.String())
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	dto, err := ParseCreateNewGameDTO(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}
	if dto.Width > g.maxWidth || dto.Height > g.maxHeight {
		sendErrorOrLog(w, g.log, fmt.Errorf(
			"%w: board larger than %dx%d", mines.ErrInvalidConfiguration, g.maxWidth, g.maxHeight,
		))
		return
	}

	s, err := g.sessions.Create(dto.GameParams, dto.Options()...)
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}

	token, err := g.jwt.Sign(s.Id.String())
	if err != nil {
		_ = g.sessions.Delete(s.Id)
		sendErrorOrLog(w, g.log, fmt.Errorf("unable to sign game token: %w", err))
		return
	}

	var created *CreatedGameDTO
	err = g.sessions.Do(s.Id, func(game *mines.Game) error {
		created = &CreatedGameDTO{Token: token, GameDTO: NewGameDTO(s.Id.String(), game)}
		return nil
	})
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}

	g.log.WithFields(logrus.Fields{
		"game_id": s.Id.String(),
		"params":  dto.GameParams.String(),
	}).Info("game created")
	sendJSONOrLog(w, g.log, http.StatusCreated, created)
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	id, err := parseGameId(r)
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}

	var dto *GameDTO
	err = g.sessions.Do(id, func(game *mines.Game) error {
		dto = NewGameDTO(id.String(), game)
		return nil
	})
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, dto)
}

func (g GameHandler) Square(w http.ResponseWriter, r *http.Request) {
	id, err := parseGameId(r)
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}
	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}

	var st mines.SquareState
	err = g.sessions.Do(id, func(game *mines.Game) (err error) {
		st, err = game.SquareState(pos)
		return
	})
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}
	sendJSONOrLog(w, g.log, http.StatusOK, st)
}

// MakeAMove returns the handler for one kind of move.
func (g GameHandler) MakeAMove(move Move) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseGameId(r)
		if err != nil {
			sendErrorOrLog(w, g.log, err)
			return
		}
		if err := g.authorize(r, id); err != nil {
			sendErrorOrLog(w, g.log, err)
			return
		}
		pos, err := ParsePosition(r.URL.Query())
		if err != nil {
			sendErrorOrLog(w, g.log, err)
			return
		}

		var result *MoveResultDTO
		err = g.sessions.Do(id, func(game *mines.Game) (err error) {
			result, err = applyMove(game, move, pos)
			return
		})
		if err != nil {
			sendErrorOrLog(w, g.log, err)
			return
		}

		if result.Status.Terminal() {
			g.log.WithFields(logrus.Fields{
				"game_id": id.String(),
				"status":  result.Status.String(),
			}).Info("game finished")
		}
		sendJSONOrLog(w, g.log, http.StatusOK, result)
	}
}

func (g GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseGameId(r)
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}
	if err := g.authorize(r, id); err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}
	if err := g.sessions.Delete(id); err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
