package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/pkg/metrics"
)

const janitorInterval = time.Minute

// Session is a saved filter selection that dashboard clients can reuse
// across requests instead of re-sending every dimension.
type Session struct {
	ID        string           `json:"id"`
	Selection filter.Selection `json:"selection"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

func newSessionStore(ttl time.Duration) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

func (st *sessionStore) create(sel filter.Selection) Session {
	now := time.Now()
	s := Session{
		ID:        uuid.NewString(),
		Selection: sel,
		CreatedAt: now,
		UpdatedAt: now,
	}
	st.mu.Lock()
	st.sessions[s.ID] = s
	count := len(st.sessions)
	st.mu.Unlock()

	metrics.RecordSessionCreated()
	metrics.UpdateActiveSessions(count)
	return s
}

func (st *sessionStore) get(id string) (Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok || time.Since(s.UpdatedAt) > st.ttl {
		return Session{}, false
	}
	return s, true
}

func (st *sessionStore) update(id string, sel filter.Selection) (Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok || time.Since(s.UpdatedAt) > st.ttl {
		return Session{}, false
	}
	s.Selection = sel
	s.UpdatedAt = time.Now()
	st.sessions[id] = s
	return s, true
}

func (st *sessionStore) delete(id string) bool {
	st.mu.Lock()
	_, ok := st.sessions[id]
	delete(st.sessions, id)
	count := len(st.sessions)
	st.mu.Unlock()
	metrics.UpdateActiveSessions(count)
	return ok
}

func (st *sessionStore) count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// janitor drops expired sessions until stopped.
func (st *sessionStore) janitor(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			st.sweep()
		}
	}
}

func (st *sessionStore) sweep() {
	now := time.Now()
	st.mu.Lock()
	expired := 0
	for id, s := range st.sessions {
		if now.Sub(s.UpdatedAt) > st.ttl {
			delete(st.sessions, id)
			expired++
		}
	}
	count := len(st.sessions)
	st.mu.Unlock()

	for i := 0; i < expired; i++ {
		metrics.RecordSessionExpired()
	}
	metrics.UpdateActiveSessions(count)
}

// ensureStarted reports whether Start has run, under the service lock.
func (s *Service) ensureStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// CreateSession saves a filter selection and returns its handle.
func (s *Service) CreateSession(ctx context.Context, sel filter.Selection) (Session, error) {
	if err := s.ensureStarted(); err != nil {
		return Session{}, err
	}
	return s.sessions.create(sel), nil
}

// GetSession returns a saved session by id.
func (s *Service) GetSession(ctx context.Context, id string) (Session, error) {
	if err := s.ensureStarted(); err != nil {
		return Session{}, err
	}
	sess, ok := s.sessions.get(id)
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// UpdateSession replaces the selection stored under id.
func (s *Service) UpdateSession(ctx context.Context, id string, sel filter.Selection) (Session, error) {
	if err := s.ensureStarted(); err != nil {
		return Session{}, err
	}
	sess, ok := s.sessions.update(id, sel)
	if !ok {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

// DeleteSession removes a saved session. Deleting an unknown id is an error.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	if err := s.ensureStarted(); err != nil {
		return err
	}
	if !s.sessions.delete(id) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}
