// Package media provides the MediaItem entity played by the listener.
package media

import (
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

// Kind represents the type of a media item.
type Kind string

const (
	KindLive    Kind = "LIVE"    // Continuous radio stream (no fixed duration)
	KindPodcast Kind = "PODCAST" // Finite, seekable on-demand episode
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindLive:
		return "live"
	case KindPodcast:
		return "podcast"
	default:
		return "unknown"
	}
}

// Item represents something the listener can play.
// Items are transient and never persisted.
type Item struct {
	Kind          Kind   // Live or Podcast
	Title         string // Display title
	SourceURL     string // Playable resource locator
	ImageURL      string // Artwork (optional)
	DurationLabel string // Human readable duration, e.g. "42:10" (optional)
	EpisodeNumber int    // Episode number (podcast only, optional)
	SeasonNumber  int    // Season number (podcast only, optional)
	PodcastID     string // Podcast ID in the catalog (podcast only, optional)
}

// Live creates a live stream item.
func Live(title, streamURL string) Item {
	return Item{
		Kind:      KindLive,
		Title:     title,
		SourceURL: streamURL,
	}
}

// Validate checks that the item can be loaded.
func (i Item) Validate() error {
	if i.Kind != KindLive && i.Kind != KindPodcast {
		return errors.Newf("invalid media kind %q", i.Kind)
	}
	if strings.TrimSpace(i.SourceURL) == "" {
		return errors.New("media item has no source url")
	}
	return nil
}

// SameSource reports whether both items point to the same playable resource.
func (i Item) SameSource(other Item) bool {
	return i.SourceURL == other.SourceURL
}

// IsSeekable returns true if playback position can be moved.
func (i Item) IsSeekable() bool {
	return i.Kind == KindPodcast
}

// Subtitle returns the secondary display line ("S2 · E14 · 42:10").
func (i Item) Subtitle() string {
	if i.Kind == KindLive {
		return "Live"
	}

	var parts []string
	if i.SeasonNumber > 0 {
		parts = append(parts, fmt.Sprintf("S%d", i.SeasonNumber))
	}
	if i.EpisodeNumber > 0 {
		parts = append(parts, fmt.Sprintf("E%d", i.EpisodeNumber))
	}
	if i.DurationLabel != "" {
		parts = append(parts, i.DurationLabel)
	}
	return strings.Join(parts, " · ")
}

// FormatDuration formats a duration as "m:ss", or "h:mm:ss" past one hour.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
