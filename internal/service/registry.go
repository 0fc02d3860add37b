// Package service hosts workflow sessions for the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jask/ecoscope/internal/workflow"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// Registry is a concurrency-safe in-memory set of sessions sharing one provider.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	provider workflow.Provider
	ttl      time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRegistry creates a registry whose idle sessions expire after ttl.
// A ttl <= 0 keeps sessions until Close.
func NewRegistry(p workflow.Provider, ttl time.Duration) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
		provider: p,
		ttl:      ttl,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
}

func (r *Registry) Create() *Session {
	s := newSession(r.ctx, r.provider, r.now)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

func (r *Registry) Get(id string) (*Session, error) {
	key, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	r.mu.RLock()
	s, ok := r.sessions[key]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Prune drops sessions idle longer than the ttl and returns how many went.
func (r *Registry) Prune(now time.Time) int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.lastSeen().Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	return len(expired)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close cancels every in-flight provider run and forgets all sessions.
func (r *Registry) Close() {
	r.cancel()
	r.mu.Lock()
	r.sessions = make(map[uuid.UUID]*Session)
	r.mu.Unlock()
}
