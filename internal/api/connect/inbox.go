package connect

import (
	"context"

	"connectrpc.com/connect"

	"github.com/osa030/onair/internal/api/onairv1"
	"github.com/osa030/onair/internal/app/content"
	"github.com/osa030/onair/internal/app/notification"
)

// InboxBroadcaster publishes inbox changes to admins watching the inbox.
type InboxBroadcaster struct {
	manager *notification.Manager
}

var _ content.Inbox = (*InboxBroadcaster)(nil)

// NewInboxBroadcaster creates an inbox that broadcasts through manager.
func NewInboxBroadcaster(manager *notification.Manager) *InboxBroadcaster {
	return &InboxBroadcaster{manager: manager}
}

// Publish implements content.Inbox.
func (b *InboxBroadcaster) Publish(ctx context.Context, event content.InboxEvent) {
	b.manager.Broadcast(toInboxEvent(event))
}

// inboxStreamAdapter adapts connect.ServerStream to notification.Stream.
type inboxStreamAdapter struct {
	stream *connect.ServerStream[onairv1.InboxEvent]
}

func (a *inboxStreamAdapter) Send(event *onairv1.InboxEvent) error {
	return a.stream.Send(event)
}
