package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/osa030/onair/internal/app/playback"
	"github.com/osa030/onair/internal/domain/media"
)

const maxListed = 10

type styles struct {
	header   lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	status   lipgloss.Style
	live     lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
	filled   lipgloss.Style
	empty    lipgloss.Style
	border   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1),
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		subtitle: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		status:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		live:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		filled:   lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2),
	}
}

// View renders the screen.
func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(m.styles.header.Render("📻 " + m.station))
	sb.WriteString("\n")
	sb.WriteString(m.nowPlaying())
	sb.WriteString("\n\n")
	sb.WriteString(m.episodeList())
	sb.WriteString("\n")
	sb.WriteString(m.styles.muted.Render(
		"[l] Live  [Enter] Play episode  [Space] Play/Pause  [s] Stop  [←/→] Seek  [+/-] Volume  [q] Quit",
	))

	width := m.width - 4
	if width < 40 {
		width = 40
	}
	return m.styles.border.Width(width).Render(sb.String())
}

func (m Model) nowPlaying() string {
	s := m.state
	if s.Item == nil {
		return m.styles.muted.Render("♪ Nothing playing")
	}

	var sb strings.Builder
	sb.WriteString(m.styles.status.Render(statusIcon(s.Phase) + " "))
	if s.Item.Kind == media.KindLive {
		sb.WriteString(m.styles.live.Render("● LIVE "))
	}
	sb.WriteString(m.styles.title.Render(s.Item.Title))
	if sub := s.Item.Subtitle(); sub != "" && s.Item.Kind != media.KindLive {
		sb.WriteString("\n")
		sb.WriteString(m.styles.subtitle.Render(sub))
	}
	sb.WriteString("\n")
	if s.Item.IsSeekable() {
		sb.WriteString(m.progressBar(30))
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("Volume: %s %d%%", m.volumeBar(), int(s.Volume*100+0.5)))
	return sb.String()
}

func (m Model) episodeList() string {
	if len(m.episodes) == 0 {
		return m.styles.muted.Render("No episodes")
	}

	start := 0
	if m.cursor >= maxListed {
		start = m.cursor - maxListed + 1
	}
	end := start + maxListed
	if end > len(m.episodes) {
		end = len(m.episodes)
	}

	var lines []string
	for i := start; i < end; i++ {
		item := m.episodes[i]
		line := item.Title
		if sub := item.Subtitle(); sub != "" {
			line += "  " + m.styles.muted.Render(sub)
		}
		if i == m.cursor {
			lines = append(lines, m.styles.selected.Render("> ")+line)
		} else {
			lines = append(lines, "  "+line)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) progressBar(width int) string {
	filled := int(float64(width) * m.state.Progress())
	bar := m.styles.filled.Render(strings.Repeat("█", filled)) +
		m.styles.empty.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s %s/%s", bar, clock(m.state.Position), clock(m.state.Duration))
}

func (m Model) volumeBar() string {
	filled := int(m.state.Volume*10 + 0.5)
	return m.styles.filled.Render(strings.Repeat("●", filled)) +
		m.styles.empty.Render(strings.Repeat("○", 10-filled))
}

func statusIcon(p playback.Phase) string {
	switch p {
	case playback.PhasePlaying:
		return "▶"
	case playback.PhaseLoading:
		return "…"
	case playback.PhasePaused:
		return "⏸"
	default:
		return "⏹"
	}
}

func clock(seconds float64) string {
	return media.FormatDuration(time.Duration(seconds * float64(time.Second)))
}
