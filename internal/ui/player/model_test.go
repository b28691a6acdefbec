package player

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/onair/internal/app/playback"
	"github.com/osa030/onair/internal/domain/media"
)

type fakeController struct {
	state   playback.State
	events  chan playback.Event
	played  []media.Item
	seeks   []float64
	toggles int
	stops   int
}

func newFakeController() *fakeController {
	return &fakeController{
		state:  playback.State{Volume: 0.5},
		events: make(chan playback.Event, 4),
	}
}

func (f *fakeController) Play(item media.Item) {
	f.played = append(f.played, item)
	f.state.Item = &item
	f.state.Phase = playback.PhaseLoading
}

func (f *fakeController) TogglePlayPause()             { f.toggles++ }
func (f *fakeController) Stop()                        { f.stops++; f.state = playback.State{Volume: f.state.Volume} }
func (f *fakeController) SetVolume(v float64)          { f.state.Volume = v }
func (f *fakeController) Seek(s float64)               { f.seeks = append(f.seeks, s) }
func (f *fakeController) Snapshot() playback.State     { return f.state }
func (f *fakeController) Events() <-chan playback.Event { return f.events }

var (
	live     = media.Live("Onair FM", "https://stream.example.com/live")
	episodes = []media.Item{
		{Kind: media.KindPodcast, Title: "Episode 2", SourceURL: "https://cdn.example.com/2.mp3", EpisodeNumber: 2, DurationLabel: "30:00"},
		{Kind: media.KindPodcast, Title: "Episode 1", SourceURL: "https://cdn.example.com/1.mp3", EpisodeNumber: 1},
	}
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(Model)
	}
	return m, cmd
}

func TestModel_PlaySelection(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, "Onair FM", live, episodes)

	m, _ = press(m, "down", "down", "enter")
	require.Len(t, ctrl.played, 1)
	assert.Equal(t, "Episode 1", ctrl.played[0].Title)

	m, _ = press(m, "up", "enter", "l")
	require.Len(t, ctrl.played, 3)
	assert.Equal(t, "Episode 2", ctrl.played[1].Title)
	assert.Equal(t, media.KindLive, ctrl.played[2].Kind)
	assert.Equal(t, media.KindLive, m.state.Item.Kind)

	press(m, "space", "s")
	assert.Equal(t, 1, ctrl.toggles)
	assert.Equal(t, 1, ctrl.stops)
}

func TestModel_Volume(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, "Onair FM", live, episodes)

	m, _ = press(m, "+", "+")
	assert.InDelta(t, 0.7, ctrl.state.Volume, 1e-9)
	press(m, "-")
	assert.InDelta(t, 0.6, ctrl.state.Volume, 1e-9)
}

func TestModel_Seek(t *testing.T) {
	tests := []struct {
		name     string
		item     media.Item
		position float64
		duration float64
		key      string
		want     []float64
	}{
		{"forward", episodes[0], 10, 1800, "right", []float64{25}},
		{"clamped to end", episodes[0], 1795, 1800, "right", []float64{1800}},
		{"clamped to start", episodes[0], 5, 1800, "left", []float64{0}},
		{"live is not seekable", live, 10, 0, "right", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := newFakeController()
			item := tt.item
			ctrl.state = playback.State{Phase: playback.PhasePlaying, Item: &item, Position: tt.position, Duration: tt.duration, Volume: 1}
			m := New(ctrl, "Onair FM", live, episodes)

			press(m, tt.key)
			assert.Equal(t, tt.want, ctrl.seeks)
		})
	}
}

func TestModel_Events(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, "Onair FM", live, episodes)
	assert.Contains(t, m.View(), "Nothing playing")

	item := episodes[0]
	ctrl.state = playback.State{Phase: playback.PhasePlaying, Item: &item, Position: 60, Duration: 1800, Volume: 1}
	ctrl.events <- playback.Event{Type: playback.EventStateChanged, State: ctrl.state}

	msg := m.Init()()
	next, cmd := m.Update(msg)
	m = next.(Model)
	assert.NotNil(t, cmd)
	assert.Equal(t, playback.PhasePlaying, m.state.Phase)

	view := m.View()
	assert.Contains(t, view, "Episode 2")
	assert.Contains(t, view, "1:00/30:00")
	assert.Contains(t, view, "100%")

	close(ctrl.events)
	_, cmd = m.Update(m.waitForEvent()())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_EventReadsCurrentState(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, "Onair FM", live, episodes)

	// The event carries the loading state, but later events were dropped and
	// the coordinator has since moved on to playing
	item := episodes[0]
	ctrl.events <- playback.Event{
		Type:  playback.EventItemChanged,
		State: playback.State{Phase: playback.PhaseLoading, Item: &item, Volume: 1},
	}
	ctrl.state = playback.State{Phase: playback.PhasePlaying, Item: &item, Position: 5, Duration: 1800, Volume: 1}

	next, _ := m.Update(m.Init()())
	m = next.(Model)

	assert.Equal(t, playback.PhasePlaying, m.state.Phase)
	assert.Equal(t, 5.0, m.state.Position)
	assert.Equal(t, ctrl.state, m.state)
}

func TestModel_Quit(t *testing.T) {
	ctrl := newFakeController()
	m := New(ctrl, "Onair FM", live, nil)

	assert.Contains(t, m.View(), "No episodes")
	m, _ = press(m, "enter")
	assert.Empty(t, ctrl.played)

	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.Equal(t, 1, ctrl.stops)
}
