package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ejdedart/dartscore/internal/match"
)

// Registry holds the live sessions. A session that is not in memory is
// loaded from the save store on first use, so matches survive a restart.
type Registry struct {
	saves  SaveStore
	logger *slog.Logger
	opts   []match.Option

	// loads collapses concurrent resumes of the same match into one
	// save-store read.
	loads singleflight.Group

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(saves SaveStore, logger *slog.Logger, opts ...match.Option) *Registry {
	return &Registry{
		saves:    saves,
		logger:   logger,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for id, or ErrNotFound.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if ok {
		return s, nil
	}

	v, err, _ := r.loads.Do(id, func() (any, error) {
		// The store is read without holding the registry lock.
		g, err := r.saves.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		s, err := sessionFromSave(g, r.saves, r.logger)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		// Double-check: a create may have registered it meanwhile.
		if cur, ok := r.sessions[id]; ok {
			return cur, nil
		}
		r.sessions[id] = s
		r.logger.Info("match resumed", "match_id", id)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// Create starts a match and returns its session with the scorer token. The
// token is not stored anywhere in clear.
func (r *Registry) Create(ctx context.Context, settings match.Settings, players []string) (*Session, string, error) {
	m, err := match.New(settings, players, r.opts...)
	if err != nil {
		return nil, "", err
	}
	token, hash, err := newScorerToken()
	if err != nil {
		return nil, "", fmt.Errorf("creating scorer token: %w", err)
	}

	s := newSession(m, hash, r.saves, r.logger)
	if err := r.saves.Save(ctx, s.snapshot()); err != nil {
		return nil, "", err
	}

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.logger.Info("match created", "match_id", s.ID, "players", len(players))
	return s, token, nil
}

// Delete drops a session from memory and from the save store. A caller
// still holding the session can no longer change or save it.
func (r *Registry) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.close()
	}

	if err := r.saves.Clear(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// Len reports how many sessions are in memory.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
