package auth

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/osa030/onair/internal/domain/admin"
)

var (
	ErrInvalidSession = errors.New("invalid session")
	ErrSessionExpired = errors.New("session expired")
	ErrSessionRevoked = errors.New("session revoked")
)

// Registry manages admin sessions with thread-safe access.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*admin.Session
}

// NewRegistry creates a new session registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*admin.Session),
	}
}

// Open registers a new session and returns a copy of it.
func (r *Registry) Open(adminID, email string, now time.Time, ttl time.Duration) admin.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New().String()
	session := admin.NewSession(id, adminID, email, now, ttl)
	r.sessions[id] = session
	return *session
}

// Get retrieves a session by ID.
func (r *Registry) Get(sessionID string) (admin.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return admin.Session{}, ErrInvalidSession
	}
	return *session, nil
}

// Validate checks that a session exists and is active, and records the activity.
func (r *Registry) Validate(sessionID string, now time.Time) (admin.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return admin.Session{}, ErrInvalidSession
	}
	if session.RevokedAt != nil {
		return admin.Session{}, ErrSessionRevoked
	}
	if session.IsExpired(now) {
		return admin.Session{}, ErrSessionExpired
	}
	session.Touch(now)
	return *session, nil
}

// Revoke ends a session.
func (r *Registry) Revoke(sessionID string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[sessionID]
	if !ok {
		return ErrInvalidSession
	}
	session.Revoke(now)
	return nil
}

// RevokeAll ends every session of an admin and returns how many were active.
func (r *Registry) RevokeAll(adminID string, now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, session := range r.sessions {
		if session.AdminID == adminID && session.IsActive(now) {
			session.Revoke(now)
			count++
		}
	}
	return count
}

// Prune removes expired and revoked sessions and returns how many were removed.
func (r *Registry) Prune(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, session := range r.sessions {
		if !session.IsActive(now) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// ActiveCount returns the number of active sessions.
func (r *Registry) ActiveCount(now time.Time) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, session := range r.sessions {
		if session.IsActive(now) {
			count++
		}
	}
	return count
}
