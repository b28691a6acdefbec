package content

import (
	"context"
	"time"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/domain/podcast"
	"github.com/osa030/onair/internal/infra/store"
)

// PodcastInput holds the editable fields of a podcast episode.
type PodcastInput struct {
	Title           string `validate:"required,max=300"`
	Description     string
	AudioURL        string `validate:"required,url"`
	ImageURL        string
	DurationSeconds int    `validate:"gte=0"`
	EpisodeNumber   int    `validate:"gte=0"`
	SeasonNumber    int    `validate:"gte=0"`
	ProgramID       string `validate:"omitempty,max=36"`
	ExternalID      string `validate:"omitempty,max=64"`
	IsPublished     bool
	PublishedAt     *time.Time // Publication time of a first publish (default now)
}

// PodcastFilter filters a podcast listing.
type PodcastFilter struct {
	PageOptions
	ProgramID     string
	PublishedOnly bool
}

// PodcastService manages podcast episodes.
type PodcastService struct {
	repo     *store.Repository[podcast.Podcast]
	programs *ProgramService
	now      func() time.Time
}

// NewPodcastService creates a new podcast service.
func NewPodcastService(repo *store.Repository[podcast.Podcast], programs *ProgramService, now func() time.Time) *PodcastService {
	return &PodcastService{repo: repo, programs: programs, now: now}
}

// List returns a page of episodes, newest first.
func (s *PodcastService) List(ctx context.Context, f PodcastFilter) (store.Page[podcast.Podcast], error) {
	q := f.query("COALESCE(published_at, created_at) desc, episode_number desc")
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if f.ProgramID != "" {
		q = q.Where("program_id = ?", f.ProgramID)
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return page, translate(err, "podcasts", "")
	}
	return page, nil
}

// Get returns an episode by ID. With publishedOnly, unpublished episodes are not found.
func (s *PodcastService) Get(ctx context.Context, id string, publishedOnly bool) (*podcast.Podcast, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "podcast", id)
	}
	if publishedOnly && !p.IsPublished {
		return nil, translate(store.ErrNotFound, "podcast", id)
	}
	return p, nil
}

// FindByExternalID returns the episode imported from the given source ID.
func (s *PodcastService) FindByExternalID(ctx context.Context, externalID string) (*podcast.Podcast, error) {
	p, err := s.repo.FindBy(ctx, "external_id", externalID)
	if err != nil {
		return nil, translate(err, "podcast", externalID)
	}
	return p, nil
}

// MaxEpisodeNumber returns the highest episode number in use, 0 if none.
func (s *PodcastService) MaxEpisodeNumber(ctx context.Context) (int, error) {
	var max int64
	row := s.repo.DB(ctx).Model(&podcast.Podcast{}).Select("COALESCE(MAX(episode_number), 0)").Row()
	if err := row.Scan(&max); err != nil {
		return 0, translate(err, "podcasts", "")
	}
	return int(max), nil
}

// Create creates an episode.
func (s *PodcastService) Create(ctx context.Context, in PodcastInput) (*podcast.Podcast, error) {
	p := &podcast.Podcast{ID: uuid.NewString()}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, translate(err, "podcast", p.ID)
	}
	zlog.Info().Msgf("podcast created: id=%s title=%s published=%t", p.ID, p.Title, p.IsPublished)
	return p, nil
}

// Update replaces the editable fields of an episode.
func (s *PodcastService) Update(ctx context.Context, id string, in PodcastInput) (*podcast.Podcast, error) {
	p, err := s.Get(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, translate(err, "podcast", id)
	}
	zlog.Info().Msgf("podcast updated: id=%s", id)
	return p, nil
}

// Delete deletes an episode.
func (s *PodcastService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "podcast", id)
	}
	zlog.Info().Msgf("podcast deleted: id=%s", id)
	return nil
}

// Count returns the number of episodes.
func (s *PodcastService) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	q := store.Query{}
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	return s.repo.Count(ctx, q)
}

func (s *PodcastService) apply(ctx context.Context, p *podcast.Podcast, in PodcastInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	if in.ProgramID != "" {
		if _, err := s.programs.Get(ctx, in.ProgramID); err != nil {
			return invalidf("program %q does not exist", in.ProgramID)
		}
	}

	p.Title = in.Title
	p.Description = in.Description
	p.AudioURL = in.AudioURL
	p.ImageURL = in.ImageURL
	p.DurationSeconds = in.DurationSeconds
	p.EpisodeNumber = in.EpisodeNumber
	p.SeasonNumber = in.SeasonNumber
	p.ProgramID = optional(in.ProgramID)
	p.ExternalID = optional(in.ExternalID)

	if in.IsPublished {
		at := s.now()
		if in.PublishedAt != nil && !in.PublishedAt.IsZero() {
			at = in.PublishedAt.UTC()
		}
		p.Publish(at)
	} else {
		p.Unpublish()
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
