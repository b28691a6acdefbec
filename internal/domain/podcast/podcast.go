// Package podcast provides the Podcast episode domain entity.
package podcast

import (
	"time"

	"github.com/osa030/onair/internal/domain/media"
)

// Podcast represents a published on-demand episode.
type Podcast struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	AudioURL        string     `gorm:"not null" json:"audio_url"`
	ImageURL        string     `json:"image_url"`
	DurationSeconds int        `json:"duration_seconds"`
	EpisodeNumber   int        `json:"episode_number"`
	SeasonNumber    int        `json:"season_number"`
	ProgramID       *string    `gorm:"index;size:36" json:"program_id,omitempty"`
	ExternalID      *string    `gorm:"uniqueIndex;size:64" json:"external_id,omitempty"` // Import source ID (e.g. Spotify episode)
	IsPublished     bool       `gorm:"index" json:"is_published"`
	PublishedAt     *time.Time `gorm:"index" json:"published_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Duration returns the episode length.
func (p *Podcast) Duration() time.Duration {
	return time.Duration(p.DurationSeconds) * time.Second
}

// DurationLabel returns the display duration ("42:10", "1:02:03"), or "" when unknown.
func (p *Podcast) DurationLabel() string {
	if p.DurationSeconds <= 0 {
		return ""
	}
	return media.FormatDuration(p.Duration())
}

// Publish marks the episode as published at the given time.
// The first publication time is kept on republish.
func (p *Podcast) Publish(now time.Time) {
	p.IsPublished = true
	if p.PublishedAt == nil {
		p.PublishedAt = &now
	}
}

// Unpublish hides the episode from the public site.
func (p *Podcast) Unpublish() {
	p.IsPublished = false
}

// MediaItem converts the episode into a playable item.
func (p *Podcast) MediaItem() media.Item {
	return media.Item{
		Kind:          media.KindPodcast,
		Title:         p.Title,
		SourceURL:     p.AudioURL,
		ImageURL:      p.ImageURL,
		DurationLabel: p.DurationLabel(),
		EpisodeNumber: p.EpisodeNumber,
		SeasonNumber:  p.SeasonNumber,
		PodcastID:     p.ID,
	}
}
