// Package contact provides the contact Message domain entity.
package contact

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Status represents the inbox status of a message.
type Status string

const (
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusArchived Status = "archived"
)

// ParseStatus parses a status name (case-insensitive).
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusUnread:
		return StatusUnread, nil
	case StatusRead:
		return StatusRead, nil
	case StatusArchived:
		return StatusArchived, nil
	default:
		return "", errors.Newf("unknown message status %q", s)
	}
}

// Message represents a message submitted through the contact form.
type Message struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"index;not null" json:"email"`
	Phone     string     `json:"phone"`
	Subject   string     `json:"subject"`
	Body      string     `gorm:"type:text;not null" json:"body"`
	Status    Status     `gorm:"index;size:16;not null" json:"status"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewMessage creates an unread message.
func NewMessage(id, name, email, phone, subject, body string) *Message {
	return &Message{
		ID:      id,
		Name:    strings.TrimSpace(name),
		Email:   strings.ToLower(strings.TrimSpace(email)),
		Phone:   strings.TrimSpace(phone),
		Subject: strings.TrimSpace(subject),
		Body:    strings.TrimSpace(body),
		Status:  StatusUnread,
	}
}

// IsUnread returns true if nobody has opened the message yet.
func (m *Message) IsUnread() bool {
	return m.Status == StatusUnread
}

// MarkRead marks the message as read.
func (m *Message) MarkRead(now time.Time) {
	m.SetStatus(StatusRead, now)
}

// Archive moves the message out of the inbox.
func (m *Message) Archive(now time.Time) {
	m.SetStatus(StatusArchived, now)
}

// SetStatus changes the status. The first read time is kept.
func (m *Message) SetStatus(status Status, now time.Time) {
	m.Status = status
	switch status {
	case StatusUnread:
		m.ReadAt = nil
	default:
		if m.ReadAt == nil {
			m.ReadAt = &now
		}
	}
}

// EmailDomain returns the lower-case domain part of the sender address.
func (m *Message) EmailDomain() string {
	at := strings.LastIndex(m.Email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(m.Email[at+1:])
}
