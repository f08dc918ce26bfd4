package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Sessions is an in-process session token store. Tokens are opaque UUIDs
// handed out on login and expire after a fixed TTL.
type Sessions struct {
	ttl time.Duration

	mu     sync.Mutex
	active map[string]session
}

type session struct {
	username  string
	createdAt time.Time
}

// NewSessions creates a session store with the given token lifetime.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{
		ttl:    ttl,
		active: make(map[string]session),
	}
}

// Create issues a new token for the user.
func (s *Sessions) Create(username string) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.active[token] = session{username: username, createdAt: time.Now()}
	s.mu.Unlock()
	return token
}

// Lookup resolves a token to its username. Expired tokens are removed and
// report not-found.
func (s *Sessions) Lookup(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.active[token]
	if !ok {
		return "", false
	}
	if time.Since(sess.createdAt) > s.ttl {
		delete(s.active, token)
		return "", false
	}
	return sess.username, true
}

// Revoke removes a token. Revoking an unknown token is a no-op.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.active, token)
	s.mu.Unlock()
}
