// Package podcastimport imports podcast episodes from a Spotify show.
package podcastimport

import (
	"context"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/app/content"
	"github.com/osa030/onair/internal/domain/podcast"
	"github.com/osa030/onair/internal/infra/spotify"
)

// ExternalIDPrefix prefixes the Spotify episode ID in Podcast.ExternalID.
const ExternalIDPrefix = "spotify:episode:"

const maxTitleLength = 300

// ErrDisabled is returned when no Spotify client is configured.
var ErrDisabled = errors.New("podcast import is not configured")

// Fetcher fetches the episodes of a show.
type Fetcher interface {
	GetShowEpisodes(ctx context.Context, showURL string) ([]spotify.Episode, error)
}

// Request describes one import run.
type Request struct {
	ShowURL   string
	ProgramID string // Optional program the episodes belong to
	Publish   bool   // Publish imported episodes at their release date
}

// Result summarizes an import run.
type Result struct {
	Fetched  int
	Imported []podcast.Podcast
	Skipped  int // Already imported
	NoAudio  int // No playable audio
}

// Importer creates podcast episodes from a show.
type Importer struct {
	fetcher  Fetcher
	podcasts *content.PodcastService
}

// New creates an importer. A nil fetcher disables importing.
func New(fetcher Fetcher, podcasts *content.PodcastService) *Importer {
	return &Importer{fetcher: fetcher, podcasts: podcasts}
}

// Enabled reports whether a fetcher is configured.
func (i *Importer) Enabled() bool {
	return i.fetcher != nil
}

// Import creates a podcast for every new episode of the show that has playable audio.
// Episodes are numbered oldest first, continuing after the highest existing number.
func (i *Importer) Import(ctx context.Context, req Request) (*Result, error) {
	if !i.Enabled() {
		return nil, ErrDisabled
	}
	if strings.TrimSpace(req.ShowURL) == "" {
		return nil, errors.Mark(errors.New("show URL is required"), content.ErrInvalidInput)
	}

	episodes, err := i.fetcher.GetShowEpisodes(ctx, req.ShowURL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch show episodes")
	}

	// Spotify lists newest first
	for a, b := 0, len(episodes)-1; a < b; a, b = a+1, b-1 {
		episodes[a], episodes[b] = episodes[b], episodes[a]
	}
	sort.SliceStable(episodes, func(a, b int) bool {
		return episodes[a].ReleasedAt.Before(episodes[b].ReleasedAt)
	})

	next, err := i.podcasts.MaxEpisodeNumber(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{Fetched: len(episodes)}
	for _, ep := range episodes {
		if ep.AudioURL == "" {
			result.NoAudio++
			continue
		}

		externalID := ExternalIDPrefix + ep.ID
		_, err := i.podcasts.FindByExternalID(ctx, externalID)
		if err == nil {
			result.Skipped++
			continue
		}
		if !errors.Is(err, content.ErrNotFound) {
			return result, err
		}

		next++
		input := content.PodcastInput{
			Title:           truncate(ep.Name, maxTitleLength),
			Description:     ep.Description,
			AudioURL:        ep.AudioURL,
			ImageURL:        ep.ImageURL,
			DurationSeconds: int(ep.Duration.Seconds()),
			EpisodeNumber:   next,
			ProgramID:       req.ProgramID,
			ExternalID:      externalID,
			IsPublished:     req.Publish,
		}
		if !ep.ReleasedAt.IsZero() {
			released := ep.ReleasedAt
			input.PublishedAt = &released
		}

		p, err := i.podcasts.Create(ctx, input)
		if err != nil {
			return result, errors.Wrapf(err, "failed to import episode %s", ep.ID)
		}
		result.Imported = append(result.Imported, *p)
	}

	zlog.Info().Msgf("podcast import finished: show=%s fetched=%d imported=%d skipped=%d no_audio=%d",
		req.ShowURL, result.Fetched, len(result.Imported), result.Skipped, result.NoAudio)
	return result, nil
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
