// Package audio implements the playback handle on top of the beep audio library.
package audio

import (
	"context"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/app/playback"
)

var _ playback.Handle = (*Handle)(nil)

// ErrNoSource is returned by Play when nothing is loaded.
var ErrNoSource = errors.New("no source loaded")

// ErrClosed is returned by Play after Close.
var ErrClosed = errors.New("handle closed")

// Config represents handle configuration.
type Config struct {
	HTTPClient       *http.Client  // Client for http(s) sources (default: no timeout, for live streams)
	PositionInterval time.Duration // Time update interval (default 500ms)
	ResampleQuality  int           // beep resample quality (default 4)
}

// Handle plays one source at a time through an Output.
type Handle struct {
	mu     sync.Mutex
	output Output
	client *http.Client
	config Config

	// Current source
	gen      uint64
	source   string
	cancel   context.CancelFunc
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume
	ready    bool
	finished bool
	wantPlay bool
	level    float64

	// Listeners
	listeners map[int]playback.Listener
	nextID    int
	queue     *notificationQueue

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// NewHandle creates a handle playing to output.
func NewHandle(output Output, config Config) *Handle {
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{}
	}
	if config.PositionInterval <= 0 {
		config.PositionInterval = 500 * time.Millisecond
	}
	if config.ResampleQuality <= 0 {
		config.ResampleQuality = 4
	}

	h := &Handle{
		output:    output,
		client:    config.HTTPClient,
		config:    config,
		level:     1,
		listeners: make(map[int]playback.Listener),
		queue:     newNotificationQueue(),
		done:      make(chan struct{}),
	}

	h.wg.Add(2)
	go h.dispatch()
	go h.trackPosition()
	return h
}

// Load replaces the current source and starts loading it in the background.
func (h *Handle) Load(source string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	h.releaseLocked()
	h.gen++
	h.source = source
	h.wantPlay = false

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel

	h.emit(playback.Notification{Type: playback.NotifyLoadStart, Source: source})
	h.wg.Add(1)
	go h.load(ctx, h.gen, source)
}

// Play starts output once the source is ready.
func (h *Handle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if h.source == "" {
		return ErrNoSource
	}

	h.wantPlay = true
	if !h.ready {
		return nil
	}
	if h.finished {
		h.finished = false
		h.startLocked()
	}
	h.output.Lock()
	h.ctrl.Paused = false
	h.output.Unlock()
	h.emit(playback.Notification{Type: playback.NotifyPlaying, Source: h.source})
	return nil
}

// Pause pauses output.
func (h *Handle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || h.source == "" {
		return
	}

	h.wantPlay = false
	if h.ready {
		h.output.Lock()
		h.ctrl.Paused = true
		h.output.Unlock()
	}
	h.emit(playback.Notification{Type: playback.NotifyPaused, Source: h.source})
}

// SetPosition seeks within seekable sources. Live streams ignore it.
func (h *Handle) SetPosition(seconds float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || !h.ready || h.streamer.Len() <= 0 {
		return
	}

	target := h.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	target = max(0, min(target, h.streamer.Len()))

	h.output.Lock()
	err := h.streamer.Seek(target)
	h.output.Unlock()
	if err != nil {
		zlog.Warn().Err(err).Msgf("audio: seek failed: source=%s", h.source)
		return
	}
	if h.finished && target < h.streamer.Len() && h.wantPlay {
		h.finished = false
		h.startLocked()
	}

	h.emit(playback.Notification{
		Type:     playback.NotifyTimeUpdate,
		Source:   h.source,
		Position: h.format.SampleRate.D(target).Seconds(),
	})
}

// SetVolume sets the output volume in [0,1].
func (h *Handle) SetVolume(volume float64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.level = math.Max(0, math.Min(1, volume))
	if h.volume != nil {
		h.output.Lock()
		applyVolume(h.volume, h.level)
		h.output.Unlock()
	}
}

// Subscribe registers a listener.
func (h *Handle) Subscribe(l playback.Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	h.listeners[id] = l

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Close stops output and waits for background goroutines.
func (h *Handle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.releaseLocked()
	close(h.done)
	h.mu.Unlock()

	h.queue.close()
	h.wg.Wait()
	return nil
}

func (h *Handle) load(ctx context.Context, gen uint64, source string) {
	defer h.wg.Done()

	body, hint, err := openSource(ctx, h.client, source)
	if err != nil {
		h.loadFailed(gen, source, err)
		return
	}
	streamer, format, err := decode(body, hint)
	if err != nil {
		_ = body.Close()
		h.loadFailed(gen, source, errors.Wrap(err, "failed to decode source"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || gen != h.gen {
		_ = streamer.Close()
		return
	}

	h.streamer = streamer
	h.format = format
	h.ctrl = &beep.Ctrl{Streamer: streamer, Paused: !h.wantPlay}
	h.volume = &effects.Volume{Streamer: h.ctrl, Base: 2}
	applyVolume(h.volume, h.level)
	h.ready = true
	h.startLocked()

	zlog.Debug().Msgf("audio: source ready: source=%s rate=%d channels=%d", source, format.SampleRate, format.NumChannels)

	if n := streamer.Len(); n > 0 {
		h.emit(playback.Notification{
			Type:     playback.NotifyMetadata,
			Source:   source,
			Duration: format.SampleRate.D(n).Seconds(),
		})
	}
	h.emit(playback.Notification{Type: playback.NotifyReady, Source: source})
	if h.wantPlay {
		h.emit(playback.Notification{Type: playback.NotifyPlaying, Source: source})
	}
}

func (h *Handle) loadFailed(gen uint64, source string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || gen != h.gen {
		return
	}
	zlog.Debug().Err(err).Msgf("audio: load failed: source=%s", source)
	h.emit(playback.Notification{Type: playback.NotifyError, Source: source, Err: err})
}

// startLocked adds the current source to the output mix.
func (h *Handle) startLocked() {
	gen := h.gen
	var s beep.Streamer = h.volume
	if h.format.SampleRate != h.output.SampleRate() {
		s = beep.Resample(h.config.ResampleQuality, h.format.SampleRate, h.output.SampleRate(), s)
	}
	h.output.Play(beep.Seq(s, beep.Callback(func() {
		// Runs on the output goroutine with the output locked
		go h.onEnded(gen)
	})))
}

func (h *Handle) onEnded(gen uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || gen != h.gen || !h.ready {
		return
	}
	h.finished = true
	h.wantPlay = false
	h.emit(playback.Notification{Type: playback.NotifyEnded, Source: h.source})
}

// releaseLocked stops and closes the current source.
func (h *Handle) releaseLocked() {
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	h.output.Clear()
	if h.streamer != nil {
		if err := h.streamer.Close(); err != nil {
			zlog.Debug().Err(err).Msgf("audio: failed to close source: source=%s", h.source)
		}
	}
	h.streamer = nil
	h.ctrl = nil
	h.volume = nil
	h.ready = false
	h.finished = false
}

// trackPosition emits time updates while playing.
func (h *Handle) trackPosition() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.config.PositionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.done:
			return
		case <-ticker.C:
			h.mu.Lock()
			if h.ready && !h.finished && h.wantPlay {
				h.output.Lock()
				pos := h.streamer.Position()
				h.output.Unlock()
				h.emit(playback.Notification{
					Type:     playback.NotifyTimeUpdate,
					Source:   h.source,
					Position: h.format.SampleRate.D(pos).Seconds(),
				})
			}
			h.mu.Unlock()
		}
	}
}

// emit queues a notification. Must be called with h.mu held.
func (h *Handle) emit(n playback.Notification) {
	h.queue.push(n)
}

// dispatch delivers queued notifications to listeners outside of h.mu.
func (h *Handle) dispatch() {
	defer h.wg.Done()

	for {
		n, ok := h.queue.pop()
		if !ok {
			return
		}

		h.mu.Lock()
		listeners := make([]playback.Listener, 0, len(h.listeners))
		for _, l := range h.listeners {
			listeners = append(listeners, l)
		}
		h.mu.Unlock()

		for _, l := range listeners {
			l(n)
		}
	}
}

func applyVolume(v *effects.Volume, level float64) {
	if level <= 0 {
		v.Silent = true
		return
	}
	v.Silent = false
	v.Volume = math.Log2(level)
}

// notificationQueue is an unbounded FIFO so emitting never blocks a caller
// that holds the coordinator lock.
type notificationQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []playback.Notification
	closed bool
}

func newNotificationQueue() *notificationQueue {
	q := &notificationQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *notificationQueue) push(n playback.Notification) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, n)
	q.cond.Signal()
}

func (q *notificationQueue) pop() (playback.Notification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return playback.Notification{}, false
	}
	n := q.items[0]
	q.items = q.items[1:]
	return n, true
}

func (q *notificationQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}
