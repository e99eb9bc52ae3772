package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-engine/internal/config"
	"github.com/vancomm/minesweeper-engine/internal/middleware"
	"github.com/vancomm/minesweeper-engine/internal/session"
)

type App struct {
	log      *logrus.Logger
	cfg      *config.App
	router   *http.ServeMux
	sessions *session.Registry
	jwt      *config.JWT
	ws       *config.WebSocket
}

func New(log *logrus.Logger, cfg *config.App) (*App, error) {
	jwt, generated, err := config.NewJWT(cfg)
	if err != nil {
		return nil, err
	}
	if generated {
		log.Warn("JWT_SECRET is not set; game tokens will not survive a restart")
	}

	a := &App{
		log:      log,
		cfg:      cfg,
		router:   http.NewServeMux(),
		sessions: session.NewRegistry(log),
		jwt:      jwt,
		ws:       config.NewWebSocket(cfg),
	}
	a.loadRoutes()
	return a, nil
}

// Handler is the full middleware stack around the router.
func (a *App) Handler() http.Handler {
	var h http.Handler = a.router
	if base := strings.TrimSuffix(a.cfg.BasePath, "/"); base != "" {
		h = http.StripPrefix(base, h)
	}
	return middleware.Wrap(
		h,
		middleware.Auth(a.log, a.jwt),
		middleware.Cors(),
		middleware.Logging(a.log),
		middleware.Recover(a.log),
	)
}

// Start serves until ctx is cancelled or the listener fails, sweeping
// idle sessions in the background.
func (a *App) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.log.WithField("addr", a.cfg.Addr).Info("server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("unable to listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.sessions.Run(gCtx, a.cfg.SessionTTL, a.cfg.SweepInterval)
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		a.log.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
