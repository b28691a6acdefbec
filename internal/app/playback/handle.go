package playback

// Listener receives handle notifications.
type Listener func(Notification)

// Handle is the single audio output shared by every consumer.
// Only the Coordinator calls it.
//
// Implementations deliver notifications from their own goroutine and never
// invoke a listener from inside one of these methods.
type Handle interface {
	// Load replaces the current source and starts loading it.
	Load(source string)
	// Play starts or resumes output of the loaded source.
	// An error means the handle rejected the request immediately.
	Play() error
	// Pause pauses output.
	Pause()
	// SetPosition moves the playback position, in seconds.
	SetPosition(seconds float64)
	// SetVolume sets the output volume in [0,1].
	SetVolume(volume float64)
	// Subscribe registers a listener and returns a function that removes it.
	Subscribe(l Listener) (unsubscribe func())
	// Close releases the output.
	Close() error
}
