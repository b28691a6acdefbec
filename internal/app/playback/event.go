package playback

// NotificationType represents a lifecycle notification emitted by a Handle.
type NotificationType int

const (
	NotifyLoadStart  NotificationType = iota // Source started loading
	NotifyMetadata                           // Duration is known
	NotifyReady                              // Enough data to start playing
	NotifyPlaying                            // Output started
	NotifyPaused                             // Output paused
	NotifyTimeUpdate                         // Position changed
	NotifyEnded                              // Reached the end of the media
	NotifyError                              // Load or playback failed
)

// String returns the string representation of the notification type.
func (n NotificationType) String() string {
	switch n {
	case NotifyLoadStart:
		return "load_start"
	case NotifyMetadata:
		return "metadata"
	case NotifyReady:
		return "ready"
	case NotifyPlaying:
		return "playing"
	case NotifyPaused:
		return "paused"
	case NotifyTimeUpdate:
		return "time_update"
	case NotifyEnded:
		return "ended"
	case NotifyError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a lifecycle message from a Handle.
// Source identifies the resource the notification is about.
type Notification struct {
	Type     NotificationType
	Source   string
	Position float64 // Seconds (NotifyTimeUpdate)
	Duration float64 // Seconds (NotifyMetadata)
	Err      error   // NotifyError
}

// EventType represents a coordinator event type.
type EventType int

const (
	EventItemChanged    EventType = iota // Current item replaced or cleared
	EventStateChanged                    // Phase changed
	EventProgress                        // Position or duration changed
	EventVolumeChanged                   // Volume changed
	EventPlaybackFailed                  // Current item failed to load or play
)

// String returns the string representation of the event type.
func (e EventType) String() string {
	switch e {
	case EventItemChanged:
		return "item_changed"
	case EventStateChanged:
		return "state_changed"
	case EventProgress:
		return "progress"
	case EventVolumeChanged:
		return "volume_changed"
	case EventPlaybackFailed:
		return "playback_failed"
	default:
		return "unknown"
	}
}

// Event is sent to consumers of the coordinator.
type Event struct {
	Type  EventType
	State State
	Err   error // Set for EventPlaybackFailed
}
