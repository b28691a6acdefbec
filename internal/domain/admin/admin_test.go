package admin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_Password(t *testing.T) {
	a := &Admin{Email: "dj@example.com"}

	assert.False(t, a.CheckPassword("anything"), "no hash stored yet")

	err := a.SetPassword("short")
	require.Error(t, err)

	require.NoError(t, a.SetPassword("correct horse"))
	assert.NotEqual(t, "correct horse", a.PasswordHash)
	assert.True(t, a.CheckPassword("correct horse"))
	assert.False(t, a.CheckPassword("wrong horse"))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "dj@example.com", NormalizeEmail("  DJ@Example.com "))
}

func TestSession_Lifecycle(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewSession("sess-1", "admin-1", "dj@example.com", now, time.Hour)

	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)
	assert.True(t, s.IsActive(now))
	assert.True(t, s.IsActive(now.Add(59*time.Minute)))
	assert.False(t, s.IsActive(now.Add(time.Hour)))
	assert.True(t, s.IsExpired(now.Add(time.Hour)))

	s.Touch(now.Add(time.Minute))
	assert.Equal(t, now.Add(time.Minute), s.LastSeenAt)

	s.Revoke(now.Add(2 * time.Minute))
	s.Revoke(now.Add(3 * time.Minute))
	assert.False(t, s.IsActive(now.Add(5*time.Minute)))
	require.NotNil(t, s.RevokedAt)
	assert.Equal(t, now.Add(2*time.Minute), *s.RevokedAt)
}
