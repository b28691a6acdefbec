package audio

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/onair/internal/app/playback"
	"github.com/osa030/onair/internal/domain/media"
)

// fakeOutput mixes nothing; tests pull samples with drain.
type fakeOutput struct {
	mu        sync.Mutex
	streamers []beep.Streamer
}

func (o *fakeOutput) SampleRate() beep.SampleRate { return 8000 }
func (o *fakeOutput) Lock()                       { o.mu.Lock() }
func (o *fakeOutput) Unlock()                     { o.mu.Unlock() }

func (o *fakeOutput) Play(s beep.Streamer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.streamers = append(o.streamers, s)
}

func (o *fakeOutput) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.streamers = nil
}

func (o *fakeOutput) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.streamers)
}

// drain streams every playing streamer to its end.
func (o *fakeOutput) drain() {
	o.mu.Lock()
	defer o.mu.Unlock()

	buf := make([][2]float64, 256)
	for _, s := range o.streamers {
		for i := 0; i < 1000; i++ {
			if _, ok := s.Stream(buf); !ok {
				break
			}
		}
	}
	o.streamers = nil
}

// writeWAV writes samples of silence at 8kHz mono.
func writeWAV(t *testing.T, dir string, samples int) string {
	t.Helper()
	path := filepath.Join(dir, "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	format := beep.Format{SampleRate: 8000, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(samples), format))
	require.NoError(t, f.Close())
	return path
}

type recorder struct {
	ch chan playback.Notification
}

func subscribe(h *Handle) *recorder {
	r := &recorder{ch: make(chan playback.Notification, 256)}
	h.Subscribe(func(n playback.Notification) { r.ch <- n })
	return r
}

func (r *recorder) waitFor(t *testing.T, typ playback.NotificationType) playback.Notification {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case n := <-r.ch:
			if n.Type == typ {
				return n
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", typ)
			return playback.Notification{}
		}
	}
}

func newTestHandle(t *testing.T) (*Handle, *fakeOutput) {
	t.Helper()
	out := &fakeOutput{}
	h := NewHandle(out, Config{PositionInterval: time.Hour})
	t.Cleanup(func() { _ = h.Close() })
	return h, out
}

func TestHandle_LoadPlayEnd(t *testing.T) {
	h, out := newTestHandle(t)
	rec := subscribe(h)
	path := writeWAV(t, t.TempDir(), 800)

	h.Load(path)
	assert.Equal(t, path, rec.waitFor(t, playback.NotifyLoadStart).Source)
	meta := rec.waitFor(t, playback.NotifyMetadata)
	assert.InDelta(t, 0.1, meta.Duration, 0.001)
	rec.waitFor(t, playback.NotifyReady)
	assert.Equal(t, 1, out.count())

	require.NoError(t, h.Play())
	rec.waitFor(t, playback.NotifyPlaying)

	out.drain()
	assert.Equal(t, path, rec.waitFor(t, playback.NotifyEnded).Source)

	// Playing again after the end re-adds the source to the mix
	h.SetPosition(0)
	rec.waitFor(t, playback.NotifyTimeUpdate)
	require.NoError(t, h.Play())
	rec.waitFor(t, playback.NotifyPlaying)
	assert.Equal(t, 1, out.count())
}

func TestHandle_PlayBeforeReady(t *testing.T) {
	h, _ := newTestHandle(t)
	rec := subscribe(h)
	path := writeWAV(t, t.TempDir(), 800)

	h.Load(path)
	require.NoError(t, h.Play())
	rec.waitFor(t, playback.NotifyPlaying)

	h.mu.Lock()
	defer h.mu.Unlock()
	assert.True(t, h.ready)
	assert.False(t, h.ctrl.Paused)
}

func TestHandle_PauseAndVolume(t *testing.T) {
	h, _ := newTestHandle(t)
	rec := subscribe(h)
	h.Load(writeWAV(t, t.TempDir(), 800))
	rec.waitFor(t, playback.NotifyReady)

	require.NoError(t, h.Play())
	h.Pause()
	rec.waitFor(t, playback.NotifyPaused)

	h.SetVolume(0)
	h.mu.Lock()
	assert.True(t, h.ctrl.Paused)
	assert.True(t, h.volume.Silent)
	h.mu.Unlock()

	h.SetVolume(0.5)
	h.mu.Lock()
	assert.False(t, h.volume.Silent)
	assert.InDelta(t, -1.0, h.volume.Volume, 1e-9)
	h.mu.Unlock()
}

func TestHandle_Seek(t *testing.T) {
	h, _ := newTestHandle(t)
	rec := subscribe(h)
	h.Load(writeWAV(t, t.TempDir(), 800))
	rec.waitFor(t, playback.NotifyReady)

	h.SetPosition(0.05)
	n := rec.waitFor(t, playback.NotifyTimeUpdate)
	assert.InDelta(t, 0.05, n.Position, 0.001)

	h.SetPosition(10)
	n = rec.waitFor(t, playback.NotifyTimeUpdate)
	assert.InDelta(t, 0.1, n.Position, 0.001)
}

func TestHandle_LoadErrors(t *testing.T) {
	dir := t.TempDir()
	unsupported := filepath.Join(dir, "clip.ogg")
	require.NoError(t, os.WriteFile(unsupported, []byte("OggS"), 0o644))

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	tests := []struct {
		name   string
		source string
		is     error
	}{
		{"missing file", filepath.Join(dir, "missing.mp3"), nil},
		{"unsupported format", unsupported, ErrUnsupportedFormat},
		{"http not found", srv.URL + "/episode.mp3", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandle(t)
			rec := subscribe(h)

			h.Load(tt.source)
			n := rec.waitFor(t, playback.NotifyError)
			assert.Equal(t, tt.source, n.Source)
			require.Error(t, n.Err)
			if tt.is != nil {
				assert.True(t, errors.Is(n.Err, tt.is))
			}
		})
	}
}

func TestHandle_HTTPSource(t *testing.T) {
	data, err := os.ReadFile(writeWAV(t, t.TempDir(), 800))
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	h, _ := newTestHandle(t)
	rec := subscribe(h)
	h.Load(srv.URL + "/live")
	assert.Equal(t, srv.URL+"/live", rec.waitFor(t, playback.NotifyReady).Source)
}

func TestHandle_PlayErrors(t *testing.T) {
	h := NewHandle(&fakeOutput{}, Config{})
	assert.ErrorIs(t, h.Play(), ErrNoSource)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.ErrorIs(t, h.Play(), ErrClosed)
}

func TestHandle_WithCoordinator(t *testing.T) {
	h, out := newTestHandle(t)
	c := playback.NewCoordinator(h, playback.Config{Volume: 0.8})
	path := writeWAV(t, t.TempDir(), 800)

	c.Play(media.Item{Kind: media.KindPodcast, Title: "Episode 1", SourceURL: path})

	require.Eventually(t, func() bool {
		return c.Snapshot().Phase == playback.PhasePlaying
	}, 2*time.Second, 10*time.Millisecond)
	assert.InDelta(t, 0.1, c.Snapshot().Duration, 0.001)

	out.drain()
	require.Eventually(t, func() bool {
		return c.Snapshot().Phase == playback.PhasePaused
	}, 2*time.Second, 10*time.Millisecond)

	item, ok := c.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, path, item.SourceURL)
}

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		expected    string
	}{
		{"audio/mpeg", "mp3"},
		{"audio/wav", "wav"},
		{"audio/x-flac", "flac"},
		{"audio/mpeg; charset=binary", "mp3"},
		{"application/octet-stream", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatFromContentType(tt.contentType))
		})
	}
}
