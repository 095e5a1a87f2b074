package dialogue

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is a thread-safe in-memory session store with TTL-based
// cleanup. Suitable for single-node deployments; distributed setups use the
// Redis store instead.
type MemoryStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex

	maxAge          time.Duration
	cleanupInterval time.Duration

	stopCleanup chan struct{}
	cleanupOnce sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMaxAge sets the idle session TTL.
func WithMaxAge(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.maxAge = d
	}
}

// WithCleanupInterval sets how often expired sessions are purged.
func WithCleanupInterval(d time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		s.cleanupInterval = d
	}
}

// NewMemoryStore creates an in-memory store and starts its cleanup loop.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		sessions:        make(map[string]*Session),
		maxAge:          24 * time.Hour,
		cleanupInterval: 5 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

// Get retrieves a session. Expired sessions are treated as not found;
// actual removal happens in the cleanup loop.
func (s *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if time.Since(session.LastTurnAt) > s.maxAge {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	// Copy out, so the caller's session never aliases the stored one. The
	// Redis store gets the same isolation for free from its JSON round-trip.
	return session.clone(), nil
}

// Save creates or updates a session.
func (s *MemoryStore) Save(_ context.Context, session *Session) error {
	if session == nil {
		return fmt.Errorf("session is nil")
	}
	if session.ID == "" {
		return fmt.Errorf("session ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	if session.LastTurnAt.IsZero() {
		session.LastTurnAt = session.CreatedAt
	}
	s.sessions[session.ID] = session.clone()
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, session := range s.sessions {
		if now.Sub(session.LastTurnAt) > s.maxAge {
			delete(s.sessions, id)
		}
	}
}

var _ Store = (*MemoryStore)(nil)
