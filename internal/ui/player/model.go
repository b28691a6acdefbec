// Package player provides the terminal now-playing screen of the listener.
package player

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/osa030/onair/internal/app/playback"
	"github.com/osa030/onair/internal/domain/media"
)

const (
	volumeStep = 0.1
	seekStep   = 15.0 // Seconds
)

// Controller is the playback surface the screen drives.
// *playback.Coordinator implements it.
type Controller interface {
	Play(item media.Item)
	TogglePlayPause()
	Stop()
	SetVolume(volume float64)
	Seek(seconds float64)
	Snapshot() playback.State
	Events() <-chan playback.Event
}

// eventMsg carries a coordinator event into the update loop.
type eventMsg playback.Event

// eventsClosedMsg is sent once the coordinator closed its event channel.
type eventsClosedMsg struct{}

// Model is the bubbletea model of the now-playing screen.
type Model struct {
	controller Controller
	station    string
	live       media.Item
	episodes   []media.Item

	cursor int
	state  playback.State
	width  int
	styles styles
}

// New creates the screen for a station, its live stream and its episodes.
func New(controller Controller, station string, live media.Item, episodes []media.Item) Model {
	return Model{
		controller: controller,
		station:    station,
		live:       live,
		episodes:   episodes,
		state:      controller.Snapshot(),
		width:      80,
		styles:     defaultStyles(),
	}
}

// Init starts listening for coordinator events.
func (m Model) Init() tea.Cmd {
	return m.waitForEvent()
}

func (m Model) waitForEvent() tea.Cmd {
	events := m.controller.Events()
	return func() tea.Msg {
		e, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return eventMsg(e)
	}
}

// Update handles key presses and coordinator events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case eventMsg:
		// Events can be dropped when the buffer is full, so read the current state
		// instead of the one carried by the event. Playback failures are not
		// surfaced; the state already shows not playing.
		m.state = m.controller.Snapshot()
		return m, m.waitForEvent()

	case eventsClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.controller.Stop()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.episodes)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.episodes) > 0 {
			m.controller.Play(m.episodes[m.cursor])
		}
	case "l":
		m.controller.Play(m.live)
	case " ", "space":
		m.controller.TogglePlayPause()
	case "s":
		m.controller.Stop()
	case "+", "=":
		m.controller.SetVolume(m.state.Volume + volumeStep)
	case "-":
		m.controller.SetVolume(m.state.Volume - volumeStep)
	case "right":
		m.seek(seekStep)
	case "left":
		m.seek(-seekStep)
	}
	m.state = m.controller.Snapshot()
	return m, nil
}

func (m Model) seek(delta float64) {
	if m.state.Item == nil || !m.state.Item.IsSeekable() {
		return
	}
	pos := m.state.Position + delta
	if pos < 0 {
		pos = 0
	}
	if m.state.Duration > 0 && pos > m.state.Duration {
		pos = m.state.Duration
	}
	m.controller.Seek(pos)
}
