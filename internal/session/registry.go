// Package session keeps running games in memory and serializes access to
// each one. The engine itself holds no locks.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-engine/internal/mines"
)

var ErrNotFound = errors.New("game session not found")

type Session struct {
	Id      uuid.UUID
	Created time.Time

	mu      sync.Mutex
	game    *mines.Game
	touched time.Time
}

type Registry struct {
	log logrus.FieldLogger
	now func() time.Time

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry(log logrus.FieldLogger) *Registry {
	return &Registry{
		log:      log,
		now:      time.Now,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a new game and registers it under a fresh id.
func (r *Registry) Create(params mines.GameParams, opts ...mines.Option) (*Session, error) {
	game, err := mines.NewGameWithParams(params, opts...)
	if err != nil {
		return nil, err
	}

	now := r.now()
	s := &Session{
		Id:      uuid.New(),
		Created: now,
		game:    game,
		touched: now,
	}

	r.mu.Lock()
	r.sessions[s.Id] = s
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{
		"game_id": s.Id.String(),
		"params":  params.String(),
	}).Debug("game session created")
	return s, nil
}

func (r *Registry) get(id uuid.UUID) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Do runs fn with exclusive access to the game of session id.
func (r *Registry) Do(id uuid.UUID, fn func(*mines.Game) error) error {
	s, err := r.get(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = r.now()
	return fn(s.game)
}

func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(r.sessions, id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep drops sessions untouched for longer than ttl and returns how many
// were removed.
func (r *Registry) Sweep(ttl time.Duration) int {
	cutoff := r.now().Add(-ttl)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.touched.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, ttl, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(ttl); n > 0 {
				r.log.WithField("removed", n).Info("swept idle game sessions")
			}
		}
	}
}
