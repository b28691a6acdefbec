package admin

import "time"

// Session represents an admin login session.
// Sessions live in memory only; a server restart logs everyone out.
type Session struct {
	ID         string     // UUID, also the token ID
	AdminID    string     // Owner
	Email      string     // Owner email at login time
	IssuedAt   time.Time  // Login time
	ExpiresAt  time.Time  // Hard expiry
	LastSeenAt time.Time  // Last authenticated request
	RevokedAt  *time.Time // Logout time
}

// NewSession creates a new session valid for ttl.
func NewSession(id, adminID, email string, now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:         id,
		AdminID:    adminID,
		Email:      email,
		IssuedAt:   now,
		ExpiresAt:  now.Add(ttl),
		LastSeenAt: now,
	}
}

// IsActive checks if the session can still authenticate requests.
func (s *Session) IsActive(now time.Time) bool {
	if s.RevokedAt != nil {
		return false
	}
	return now.Before(s.ExpiresAt)
}

// IsExpired checks if the session has passed its expiry.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Revoke ends the session. Revoking twice keeps the first time.
func (s *Session) Revoke(now time.Time) {
	if s.RevokedAt == nil {
		s.RevokedAt = &now
	}
}

// Touch records activity on the session.
func (s *Session) Touch(now time.Time) {
	s.LastSeenAt = now
}
