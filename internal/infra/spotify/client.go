// Package spotify provides a client for the Spotify Web API podcast endpoints.
package spotify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// pageLimit is the Spotify API max per page for show episodes.
const pageLimit = 50

// Show is a Spotify podcast show.
type Show struct {
	ID          string
	Name        string
	Publisher   string
	Description string
	ImageURL    string
	URL         string
}

// Episode is a Spotify podcast episode.
type Episode struct {
	ID          string
	Name        string
	Description string
	AudioURL    string // 30-second preview; empty when Spotify has no playable audio
	ImageURL    string
	URL         string
	Duration    time.Duration
	ReleasedAt  time.Time
	Explicit    bool
}

// Client is a Spotify API client.
type Client struct {
	client     *spotify.Client
	market     string
	maxRetries int
	retryDelay time.Duration
}

// Config represents Spotify client configuration.
type Config struct {
	ClientID     string
	ClientSecret string
	Market       string
}

// New creates a new Spotify client authenticated with the client credentials flow.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.New("spotify credentials are required")
	}

	// Tokens are fetched lazily and refreshed by the oauth2 transport
	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return newClient(creds.Client(ctx), cfg.Market), nil
}

func newClient(httpClient *http.Client, market string, opts ...spotify.ClientOption) *Client {
	if market == "" {
		market = "JP"
	}
	return &Client{
		client:     spotify.New(httpClient, opts...),
		market:     market,
		maxRetries: 3,
		retryDelay: time.Second,
	}
}

// GetShow retrieves show information by ID, URL, or URI.
func (c *Client) GetShow(ctx context.Context, showURL string) (*Show, error) {
	id := extractShowID(showURL)
	if id == "" {
		return nil, errors.New("invalid show URL")
	}

	var result *spotify.FullShow
	err := c.retry(ctx, func() error {
		s, err := c.client.GetShow(ctx, spotify.ID(id), spotify.Market(c.market))
		if err != nil {
			return err
		}
		result = s
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get show")
	}

	show := &Show{
		ID:          string(result.ID),
		Name:        result.Name,
		Publisher:   result.Publisher,
		Description: result.Description,
		URL:         GetShowURL(string(result.ID)),
	}
	if len(result.Images) > 0 {
		show.ImageURL = result.Images[0].URL
	}
	return show, nil
}

// GetShowEpisodes retrieves all episodes of a show, newest first as Spotify returns them.
func (c *Client) GetShowEpisodes(ctx context.Context, showURL string) ([]Episode, error) {
	id := extractShowID(showURL)
	if id == "" {
		return nil, errors.New("invalid show URL")
	}

	var episodes []Episode
	offset := 0

	for {
		var page *spotify.SimpleEpisodePage
		err := c.retry(ctx, func() error {
			p, err := c.client.GetShowEpisodes(ctx, id,
				spotify.Limit(pageLimit),
				spotify.Offset(offset),
				spotify.Market(c.market),
			)
			if err != nil {
				return err
			}
			page = p
			return nil
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to get show episodes")
		}

		for i := range page.Episodes {
			if page.Episodes[i].ID == "" {
				continue
			}
			episodes = append(episodes, convertEpisode(&page.Episodes[i]))
		}

		if len(page.Episodes) < pageLimit {
			break
		}
		offset += pageLimit
	}

	return episodes, nil
}

// GetShowURL returns the Spotify URL for a show.
func GetShowURL(showID string) string {
	return fmt.Sprintf("https://open.spotify.com/show/%s", showID)
}

// GetEpisodeURL returns the Spotify URL for an episode.
func GetEpisodeURL(episodeID string) string {
	return fmt.Sprintf("https://open.spotify.com/episode/%s", episodeID)
}

func convertEpisode(e *spotify.EpisodePage) Episode {
	episode := Episode{
		ID:          string(e.ID),
		Name:        e.Name,
		Description: e.Description,
		AudioURL:    e.AudioPreviewURL,
		URL:         GetEpisodeURL(string(e.ID)),
		Duration:    time.Duration(e.Duration_ms) * time.Millisecond,
		ReleasedAt:  parseReleaseDate(e.ReleaseDate),
		Explicit:    e.Explicit,
	}
	if len(e.Images) > 0 {
		episode.ImageURL = e.Images[0].URL
	}
	return episode
}

// parseReleaseDate parses a release date with day, month, or year precision.
func parseReleaseDate(value string) time.Time {
	for _, layout := range []string{time.DateOnly, "2006-01", "2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// retry retries an operation with linear backoff.
func (c *Client) retry(ctx context.Context, fn func() error) error {
	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}

		if i < c.maxRetries-1 {
			select {
			case <-ctx.Done():
				return errors.Wrap(ctx.Err(), "retry cancelled")
			case <-time.After(c.retryDelay * time.Duration(i+1)):
			}
		}
	}
	return errors.Wrap(lastErr, "max retries exceeded")
}

// isRetryable checks if an error is retryable.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	var apiErr spotify.Error
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		return apiErr.Status == http.StatusTooManyRequests || apiErr.Status >= 500
	}
	// Rate limit errors and server errors are retryable
	errStr := err.Error()
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "500") ||
		strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "504")
}

// extractShowID extracts the show ID from a Spotify show URL or URI.
func extractShowID(input string) string {
	input = strings.TrimSpace(input)
	// Handle Spotify URI format: spotify:show:SHOW_ID
	if strings.HasPrefix(input, "spotify:show:") {
		return strings.TrimPrefix(input, "spotify:show:")
	}

	// Handle URL format: https://open.spotify.com/show/SHOW_ID or https://open.spotify.com/intl-XX/show/SHOW_ID
	if strings.Contains(input, "open.spotify.com") && strings.Contains(input, "/show/") {
		parts := strings.Split(input, "/show/")
		if len(parts) >= 2 {
			// Remove query parameters and trailing slashes
			id := strings.Split(parts[len(parts)-1], "?")[0]
			id = strings.TrimRight(id, "/")
			return id
		}
	}

	// Assume it's already a show ID
	return input
}
