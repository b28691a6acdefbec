package playback

import (
	"math"
	"sync"

	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/domain/media"
)

// Config holds coordinator configuration.
type Config struct {
	Volume      float64 // Initial volume, clamped to [0,1] (default 1; mute with SetVolume)
	EventBuffer int     // Size of the events channel (default 32)
}

// Coordinator owns the shared playback handle and the playback state.
// Consumers (live widget, podcast list, now-playing surface) go through it
// and never touch the handle directly.
type Coordinator struct {
	mu sync.RWMutex

	handle      Handle
	unsubscribe func()

	// Current item state
	current  *media.Item
	phase    Phase
	position float64
	duration float64
	volume   float64

	// Handle status of the current source
	ready  bool // Ready notification received since the last load
	failed bool // Last load or play failed; resuming reloads

	// Events
	eventCh chan Event
	closed  bool
}

// NewCoordinator creates a coordinator bound to the given handle.
// It subscribes to the handle once; Close releases the subscription.
func NewCoordinator(handle Handle, config Config) *Coordinator {
	bufferSize := config.EventBuffer
	if bufferSize <= 0 {
		bufferSize = 32
	}

	volume := config.Volume
	if volume == 0 {
		volume = 1
	}

	c := &Coordinator{
		handle:  handle,
		phase:   PhaseIdle,
		volume:  clampVolume(volume, 1),
		eventCh: make(chan Event, bufferSize),
	}
	handle.SetVolume(c.volume)
	c.unsubscribe = handle.Subscribe(c.onNotification)
	return c
}

// Events returns the event channel.
func (c *Coordinator) Events() <-chan Event {
	return c.eventCh
}

// Play makes item the current item and starts playing it.
// Playing the current source again resumes instead of reloading, unless
// its last load failed. Load failures are logged and leave the item loaded but not playing.
func (c *Coordinator) Play(item media.Item) {
	if err := item.Validate(); err != nil {
		zlog.Warn().Err(err).Msgf("playback: ignoring invalid item: title=%s", item.Title)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	if c.current != nil && c.current.SameSource(item) {
		updated := item
		c.current = &updated
		c.resumeLocked()
		return
	}

	// Reset the previous item before the handle switches source
	if c.current != nil {
		zlog.Debug().Msgf("playback: replacing current item: from=%s to=%s", c.current.SourceURL, item.SourceURL)
		c.handle.Pause()
		c.handle.SetPosition(0)
	}

	next := item
	c.current = &next
	c.phase = PhaseLoading
	c.position = 0
	c.duration = 0
	c.sendEventLocked(Event{Type: EventItemChanged})

	c.loadLocked(item.SourceURL)
}

// Pause pauses the current item. No-op if nothing is loaded.
func (c *Coordinator) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.pauseLocked()
}

// Resume resumes the current item if it is not playing. No-op otherwise.
func (c *Coordinator) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.resumeLocked()
}

// Stop pauses, rewinds and clears the current item.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.stopLocked()
}

// TogglePlayPause pauses an active item or resumes a paused one.
// An item that is still loading counts as active.
func (c *Coordinator) TogglePlayPause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.current == nil {
		return
	}

	if c.phase == PhasePlaying || c.phase == PhaseLoading {
		c.pauseLocked()
		return
	}
	c.resumeLocked()
}

// SetVolume sets the volume, clamped to [0,1]. NaN leaves the volume unchanged.
func (c *Coordinator) SetVolume(volume float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	c.volume = clampVolume(volume, c.volume)
	c.handle.SetVolume(c.volume)
	c.sendEventLocked(Event{Type: EventVolumeChanged})
}

// Seek moves the playback position. No-op if nothing is loaded.
func (c *Coordinator) Seek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.current == nil {
		return
	}

	c.handle.SetPosition(seconds)
	c.position = seconds
	c.sendEventLocked(Event{Type: EventProgress})
}

// Snapshot returns a copy of the current state.
func (c *Coordinator) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// CurrentItem returns the current item.
func (c *Coordinator) CurrentItem() (media.Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == nil {
		return media.Item{}, false
	}
	return *c.current, true
}

// Close stops playback, releases the handle subscription and closes the handle.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.stopLocked()
	c.closed = true
	close(c.eventCh)
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if err := c.handle.Close(); err != nil {
		zlog.Warn().Err(err).Msg("playback: failed to close handle")
	}
}

func (c *Coordinator) pauseLocked() {
	if c.current == nil || c.phase == PhasePaused {
		return
	}

	c.handle.Pause()
	c.phase = PhasePaused
	c.sendEventLocked(Event{Type: EventStateChanged})
}

func (c *Coordinator) resumeLocked() {
	if c.current == nil || c.phase == PhasePlaying || c.phase == PhaseLoading {
		return
	}

	if c.failed {
		zlog.Debug().Msgf("playback: reloading after failure: source=%s", c.current.SourceURL)
		c.phase = PhaseLoading
		c.position = 0
		c.duration = 0
		c.sendEventLocked(Event{Type: EventStateChanged})
		c.loadLocked(c.current.SourceURL)
		return
	}

	if err := c.handle.Play(); err != nil {
		c.failLocked(c.current.SourceURL, err)
		return
	}
	// Paused during the load: the handle starts output once the source is ready
	if c.ready {
		c.phase = PhasePlaying
	} else {
		c.phase = PhaseLoading
	}
	c.sendEventLocked(Event{Type: EventStateChanged})
}

// loadLocked loads source into the handle and asks it to play once ready.
func (c *Coordinator) loadLocked(source string) {
	c.ready = false
	c.failed = false
	c.handle.Load(source)
	if err := c.handle.Play(); err != nil {
		c.failLocked(source, err)
	}
}

func (c *Coordinator) stopLocked() {
	if c.current != nil {
		c.handle.Pause()
		c.handle.SetPosition(0)
	}

	hadItem := c.current != nil
	c.current = nil
	c.phase = PhaseIdle
	c.position = 0
	c.duration = 0
	c.ready = false
	c.failed = false

	if hadItem {
		c.sendEventLocked(Event{Type: EventItemChanged})
	}
}

// failLocked resolves a load or playback failure to a non-playing state.
func (c *Coordinator) failLocked(source string, err error) {
	zlog.Error().Err(err).Msgf("playback: failed to play: source=%s", source)

	c.ready = false
	c.failed = true

	if c.phase == PhaseLoading || c.phase == PhasePlaying {
		c.phase = PhasePaused
	}
	c.sendEventLocked(Event{Type: EventPlaybackFailed, Err: err})
}

// onNotification applies a handle notification to the state.
// Notifications about a source other than the current one are stale and dropped.
func (c *Coordinator) onNotification(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if c.current == nil || c.current.SourceURL != n.Source {
		zlog.Debug().Msgf("playback: dropping stale notification: type=%s source=%s", n.Type, n.Source)
		return
	}

	switch n.Type {
	case NotifyLoadStart:
		c.ready = false
		if c.phase == PhasePlaying {
			c.phase = PhaseLoading
			c.sendEventLocked(Event{Type: EventStateChanged})
		}

	case NotifyMetadata:
		c.duration = n.Duration
		c.sendEventLocked(Event{Type: EventProgress})

	case NotifyReady, NotifyPlaying:
		c.ready = true
		if c.phase == PhaseLoading {
			c.phase = PhasePlaying
			c.sendEventLocked(Event{Type: EventStateChanged})
		}

	case NotifyPaused:
		if c.phase == PhasePlaying {
			c.phase = PhasePaused
			c.sendEventLocked(Event{Type: EventStateChanged})
		}

	case NotifyTimeUpdate:
		c.position = n.Position
		c.sendEventLocked(Event{Type: EventProgress})

	case NotifyEnded:
		zlog.Debug().Msgf("playback: reached end: source=%s", n.Source)
		c.handle.SetPosition(0)
		c.phase = PhasePaused
		c.position = 0
		c.sendEventLocked(Event{Type: EventStateChanged})

	case NotifyError:
		c.failLocked(n.Source, n.Err)
	}
}

func (c *Coordinator) snapshotLocked() State {
	s := State{
		Phase:    c.phase,
		Volume:   c.volume,
		Position: c.position,
		Duration: c.duration,
	}
	if c.current != nil {
		item := *c.current
		s.Item = &item
	}
	return s
}

// sendEventLocked sends an event without blocking.
// Must be called with lock held.
func (c *Coordinator) sendEventLocked(e Event) {
	e.State = c.snapshotLocked()
	select {
	case c.eventCh <- e:
	default:
		// Channel full, drop event; Snapshot stays authoritative
	}
}

func clampVolume(v, fallback float64) float64 {
	if math.IsNaN(v) {
		return fallback
	}
	return math.Max(0, math.Min(1, v))
}
