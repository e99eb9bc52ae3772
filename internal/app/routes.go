package app

import (
	"github.com/vancomm/minesweeper-engine/internal/handlers"
)

func (a *App) loadRoutes() {
	game := handlers.NewGameHandler(a.log, a.sessions, a.jwt, a.ws, a.cfg)

	a.router.HandleFunc("POST /game", game.NewGame)
	a.router.HandleFunc("GET /game/{id}", game.Fetch)
	a.router.HandleFunc("DELETE /game/{id}", game.Delete)
	a.router.HandleFunc("GET /game/{id}/square", game.Square)
	a.router.HandleFunc("POST /game/{id}/reveal", game.MakeAMove(handlers.Reveal))
	a.router.HandleFunc("POST /game/{id}/flag", game.MakeAMove(handlers.Flag))
	a.router.HandleFunc("POST /game/{id}/chord", game.MakeAMove(handlers.Chord))
	a.router.HandleFunc("/game/{id}/connect", game.ConnectWS)
}
