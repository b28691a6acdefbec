package content

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/app/filter"
	"github.com/osa030/onair/internal/domain/contact"
	"github.com/osa030/onair/internal/infra/store"
)

// InboxEventType is the kind of change made to the inbox.
type InboxEventType int

const (
	InboxMessageReceived InboxEventType = iota
	InboxStatusChanged
	InboxMessageDeleted
)

// InboxEvent describes a change to the inbox.
type InboxEvent struct {
	Type        InboxEventType
	Message     *contact.Message // nil for deletions
	MessageID   string
	UnreadCount int64
}

// Inbox receives inbox events.
type Inbox interface {
	Publish(ctx context.Context, event InboxEvent)
}

// SubmissionInput holds a contact form submission.
type SubmissionInput struct {
	Name    string `validate:"required,max=120"`
	Email   string `validate:"required,email,max=254"`
	Phone   string `validate:"omitempty,max=40"`
	Subject string `validate:"max=200"`
	Body    string `validate:"required,max=20000"`
}

// SubmitResult is the outcome of a submission. Rejections by the intake
// filters are results, not errors.
type SubmitResult struct {
	Accepted bool
	Code     string           // "success" or the rejection code
	Message  *contact.Message // Stored message when accepted
}

// MessageFilter filters a message listing.
type MessageFilter struct {
	PageOptions
	Status contact.Status // Empty for all
}

// ContactService handles contact form intake and the admin inbox.
type ContactService struct {
	repo  *store.Repository[contact.Message]
	chain *filter.Chain
	inbox Inbox
	now   func() time.Time
}

// NewContactService creates a new contact service.
func NewContactService(repo *store.Repository[contact.Message], chain *filter.Chain, inbox Inbox, now func() time.Time) *ContactService {
	if chain == nil {
		chain = filter.NewChain()
	}
	return &ContactService{repo: repo, chain: chain, inbox: inbox, now: now}
}

// History returns the lookup the intake filters use.
func (s *ContactService) History() filter.History {
	return &messageHistory{repo: s.repo}
}

// SetChain replaces the intake filter chain.
func (s *ContactService) SetChain(chain *filter.Chain) {
	s.chain = chain
}

// Submit validates a submission, runs the intake filters and stores an
// accepted message as unread.
func (s *ContactService) Submit(ctx context.Context, in SubmissionInput) (SubmitResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return SubmitResult{}, err
	}

	result := s.chain.Execute(ctx, filter.Submission{
		Name:       in.Name,
		Email:      in.Email,
		Subject:    in.Subject,
		Body:       in.Body,
		ReceivedAt: s.now(),
	})
	if !result.Accepted {
		zlog.Info().Msgf("contact submission rejected: email=%s filter=%s code=%s", in.Email, result.Filter, result.Code)
		return SubmitResult{Accepted: false, Code: result.Code}, nil
	}

	m := contact.NewMessage(uuid.NewString(), in.Name, in.Email, in.Phone, in.Subject, in.Body)
	m.CreatedAt = s.now().UTC()
	if err := s.repo.Create(ctx, m); err != nil {
		return SubmitResult{}, translate(err, "message", m.ID)
	}
	zlog.Info().Msgf("contact message received: id=%s email=%s", m.ID, m.Email)

	s.publish(ctx, InboxEvent{Type: InboxMessageReceived, Message: m, MessageID: m.ID})
	return SubmitResult{Accepted: true, Code: "success", Message: m}, nil
}

// List returns a page of messages, newest first.
func (s *ContactService) List(ctx context.Context, f MessageFilter) (store.Page[contact.Message], error) {
	q := f.query("created_at desc")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return page, translate(err, "messages", "")
	}
	return page, nil
}

// Get returns a message by ID.
func (s *ContactService) Get(ctx context.Context, id string) (*contact.Message, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "message", id)
	}
	return m, nil
}

// SetStatus changes the inbox status of a message.
func (s *ContactService) SetStatus(ctx context.Context, id string, status contact.Status) (*contact.Message, error) {
	if _, err := contact.ParseStatus(string(status)); err != nil {
		return nil, invalidf("unknown message status %q", status)
	}

	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status == status {
		return m, nil
	}

	m.SetStatus(status, s.now().UTC())
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, translate(err, "message", id)
	}
	zlog.Info().Msgf("contact message status changed: id=%s status=%s", id, status)

	s.publish(ctx, InboxEvent{Type: InboxStatusChanged, Message: m, MessageID: m.ID})
	return m, nil
}

// Delete deletes a message.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "message", id)
	}
	zlog.Info().Msgf("contact message deleted: id=%s", id)

	s.publish(ctx, InboxEvent{Type: InboxMessageDeleted, MessageID: id})
	return nil
}

// UnreadCount returns the number of unread messages.
func (s *ContactService) UnreadCount(ctx context.Context) (int64, error) {
	return s.Count(ctx, contact.StatusUnread)
}

// Count returns the number of messages with the given status, or all when empty.
func (s *ContactService) Count(ctx context.Context, status contact.Status) (int64, error) {
	q := store.Query{}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	n, err := s.repo.Count(ctx, q)
	if err != nil {
		return 0, translate(err, "messages", "")
	}
	return n, nil
}

func (s *ContactService) publish(ctx context.Context, event InboxEvent) {
	if s.inbox == nil {
		return
	}
	unread, err := s.UnreadCount(ctx)
	if err != nil {
		zlog.Warn().Err(err).Msg("failed to count unread messages")
	}
	event.UnreadCount = unread
	s.inbox.Publish(ctx, event)
}

// messageHistory answers intake filter lookups from stored messages.
type messageHistory struct {
	repo *store.Repository[contact.Message]
}

func (h *messageHistory) CountSince(ctx context.Context, email string, since time.Time) (int64, error) {
	return h.repo.Count(ctx, store.Query{}.Where("email = ? AND created_at >= ?", email, since.UTC()))
}

func (h *messageHistory) ExistsSince(ctx context.Context, email, body string, since time.Time) (bool, error) {
	n, err := h.repo.Count(ctx, store.Query{}.Where("email = ? AND body = ? AND created_at >= ?", email, body, since.UTC()))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
