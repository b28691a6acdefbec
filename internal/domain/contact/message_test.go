package contact

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	m := NewMessage("msg-1", " Ana ", " Ana@Example.COM ", "", " Hello ", " Love the show ")

	assert.Equal(t, "msg-1", m.ID)
	assert.Equal(t, "Ana", m.Name)
	assert.Equal(t, "ana@example.com", m.Email)
	assert.Equal(t, "Hello", m.Subject)
	assert.Equal(t, "Love the show", m.Body)
	assert.Equal(t, StatusUnread, m.Status)
	assert.True(t, m.IsUnread())
	assert.Equal(t, "example.com", m.EmailDomain())
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected Status
		wantErr  bool
	}{
		{input: "unread", expected: StatusUnread},
		{input: "READ", expected: StatusRead},
		{input: " archived ", expected: StatusArchived},
		{input: "deleted", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestMessage_StatusTransitions(t *testing.T) {
	m := NewMessage("msg-1", "Ana", "ana@example.com", "", "", "Hi")
	first := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	m.MarkRead(first)
	assert.Equal(t, StatusRead, m.Status)
	require.NotNil(t, m.ReadAt)
	assert.Equal(t, first, *m.ReadAt)

	m.Archive(first.Add(time.Hour))
	assert.Equal(t, StatusArchived, m.Status)
	assert.Equal(t, first, *m.ReadAt)

	m.SetStatus(StatusUnread, first.Add(2*time.Hour))
	assert.True(t, m.IsUnread())
	assert.Nil(t, m.ReadAt)
}

func TestMessage_EmailDomain(t *testing.T) {
	assert.Equal(t, "", (&Message{Email: "invalid"}).EmailDomain())
	assert.Equal(t, "mail.example.org", (&Message{Email: "a@b@Mail.Example.org"}).EmailDomain())
}
