package config

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

type WebSocket struct {
	Upgrader     websocket.Upgrader
	ReadLimit    int64
	WriteTimeout time.Duration
}

// NewWebSocket accepts any origin in development; otherwise the upgrader
// falls back to its same-origin check.
func NewWebSocket(c *App) *WebSocket {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
	}
	if c.Development {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
	}

	return &WebSocket{
		Upgrader:     upgrader,
		ReadLimit:    4096,
		WriteTimeout: 10 * time.Second,
	}
}
