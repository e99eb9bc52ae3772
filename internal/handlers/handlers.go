package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/mines"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

var (
	errBadRequest   = errors.New("bad request")
	errUnauthorized = errors.New("missing or invalid game token")
)

func SendJSON(w http.ResponseWriter, status int, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(payload)
	return err
}

func sendJSONOrLog(w http.ResponseWriter, log logrus.FieldLogger, status int, v any) {
	if err := SendJSON(w, status, v); err != nil {
		log.WithError(err).WithField("response", v).Error("unable to send response")
	}
}

type ErrorDTO struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func wrapError(err error) ErrorDTO {
	return ErrorDTO{Error: err.Error(), Code: errorCode(err)}
}

// sendErrorOrLog answers with the status that matches err. Anything
// unrecognised is logged and reported as an internal error.
func sendErrorOrLog(w http.ResponseWriter, log logrus.FieldLogger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
		sendJSONOrLog(w, log, status, ErrorDTO{Error: "internal error", Code: "internal"})
		return
	}
	sendJSONOrLog(w, log, status, wrapError(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, mines.ErrInvalidConfiguration),
		errors.Is(err, mines.ErrOutOfBounds):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, config.ErrTokenGame):
		return http.StatusForbidden
	case errors.Is(err, session.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, mines.ErrInvalidTransition),
		errors.Is(err, mines.ErrTileFlagged),
		errors.Is(err, mines.ErrGameOver):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, mines.ErrInvalidConfiguration):
		return "invalid_configuration"
	case errors.Is(err, mines.ErrOutOfBounds):
		return "out_of_bounds"
	case errors.Is(err, mines.ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, mines.ErrTileFlagged):
		return "tile_flagged"
	case errors.Is(err, mines.ErrGameOver):
		return "game_over"
	case errors.Is(err, session.ErrNotFound):
		return "not_found"
	case errors.Is(err, errUnauthorized):
		return "unauthorized"
	case errors.Is(err, config.ErrTokenGame):
		return "forbidden"
	case errors.Is(err, errBadRequest):
		return "bad_request"
	default:
		return "internal"
	}
}
