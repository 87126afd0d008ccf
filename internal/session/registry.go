package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/census-map/internal/model"
)

// Registry tracks live sessions by ID.
type Registry struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Session

	now func() time.Time
}

// NewRegistry creates an empty registry whose sessions share deps.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: make(map[string]*Session), now: time.Now}
}

// Create opens a session for profile and starts loading the default
// attribute.
func (r *Registry) Create(profile model.Profile) (*Session, error) {
	s := New(uuid.NewString(), profile, r.deps)
	if _, err := s.SelectAttribute(model.DefaultAttribute()); err != nil {
		return nil, err
	}

	s.touch(r.now())
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()

	r.deps.Metrics.SessionOpened()
	zap.L().Info("session: opened",
		zap.String("session", s.ID),
		zap.String("district", profile.District),
	)
	return s, nil
}

// Get returns the session with id and marks it as used.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if ok {
		s.touch(r.now())
	}
	return s, ok
}

// Close closes and forgets the session with id. It reports whether the
// session existed.
func (r *Registry) Close(id string) bool {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return false
	}
	s.Close()
	r.deps.Metrics.SessionClosed()
	zap.L().Info("session: closed", zap.String("session", id))
	return true
}

// CloseAll closes every session.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
		r.deps.Metrics.SessionClosed()
	}
}

// Sweep closes every session not fetched through Get for longer than
// maxIdle and returns how many were closed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.lastUsed().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
		r.deps.Metrics.SessionClosed()
		zap.L().Info("session: expired", zap.String("session", s.ID))
	}
	return len(idle)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (r *Registry) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				zap.L().Debug("session: sweep", zap.Int("closed", n), zap.Int("live", r.Len()))
			}
		}
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
