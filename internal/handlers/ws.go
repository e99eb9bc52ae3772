package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

type wsCommand string

const (
	wsNoop   wsCommand = "g"
	wsReveal wsCommand = "o"
	wsFlag   wsCommand = "f"
	wsChord  wsCommand = "c"
)

var wsMoves = map[wsCommand]Move{
	wsReveal: Reveal,
	wsFlag:   Flag,
	wsChord:  Chord,
}

func parseRowCol(args []string) (mines.Point, error) {
	if len(args) != 2 {
		return mines.Point{}, fmt.Errorf("%w: expected row and col", errBadRequest)
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return mines.Point{}, fmt.Errorf("%w: invalid row %q", errBadRequest, args[0])
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return mines.Point{}, fmt.Errorf("%w: invalid col %q", errBadRequest, args[1])
	}
	return mines.Point{Row: row, Col: col}, nil
}

// execute runs one command line such as "o 3 4" against the game.
func execute(game *mines.Game, line string) (*MoveResultDTO, error) {
	tokens := strings.Fields(line)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty command", errBadRequest)
	}

	cmd, args := wsCommand(tokens[0]), tokens[1:]
	if cmd == wsNoop {
		return &MoveResultDTO{
			Status:         game.Status(),
			RemainingMines: game.RemainingMines(),
			Changed:        []mines.SquareState{},
		}, nil
	}

	move, ok := wsMoves[cmd]
	if !ok {
		return nil, fmt.Errorf("%w: unknown command %q", errBadRequest, cmd)
	}
	pos, err := parseRowCol(args)
	if err != nil {
		return nil, err
	}
	return applyMove(game, move, pos)
}

func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	id, err := parseGameId(r)
	if err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}
	if err := g.authorize(r, id); err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}
	// fail before upgrading when the game is gone
	if err := g.sessions.Do(id, func(*mines.Game) error { return nil }); err != nil {
		sendErrorOrLog(w, g.log, err)
		return
	}

	conn, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	defer conn.Close()
	conn.SetReadLimit(g.ws.ReadLimit)

	log := g.log.WithField("game_id", id.String())
	log.Debug("websocket connected")

	if err := g.wsRunGameLoop(conn, id, log); err != nil {
		var closeErr *websocket.CloseError
		if !errors.As(err, &closeErr) || closeErr.Code != websocket.CloseNormalClosure {
			log.WithError(err).Debug("websocket closed")
		}
	}
}

// wsRunGameLoop answers every received line with one JSON message:
// either a move result or an error. It ends once the game is gone.
func (g GameHandler) wsRunGameLoop(conn *websocket.Conn, id uuid.UUID, log logrus.FieldLogger) error {
	for {
		mt, buf, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return fmt.Errorf("unsupported message type %d", mt)
		}

		for _, line := range strings.Split(strings.TrimSpace(string(buf)), "\n") {
			var reply any
			err := g.sessions.Do(id, func(game *mines.Game) error {
				result, err := execute(game, line)
				if err != nil {
					return err
				}
				reply = result
				return nil
			})
			if err != nil {
				if statusFor(err) == http.StatusInternalServerError {
					log.WithError(err).Error("websocket command failed")
				}
				reply = wrapError(err)
			}

			conn.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout))
			if err := conn.WriteJSON(reply); err != nil {
				return err
			}

			// the session was deleted or swept while connected
			if errors.Is(err, session.ErrNotFound) {
				log.Debug("websocket game gone")
				msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "game not found")
				return conn.WriteControl(
					websocket.CloseMessage, msg, time.Now().Add(g.ws.WriteTimeout),
				)
			}
		}
	}
}
