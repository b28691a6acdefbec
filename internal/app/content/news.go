package content

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/domain/news"
	"github.com/osa030/onair/internal/infra/store"
)

const maxSlugAttempts = 100

// ArticleInput holds the editable fields of an article.
type ArticleInput struct {
	Title       string `validate:"required,max=200"`
	Slug        string `validate:"omitempty,max=80"` // Derived from the title when empty
	Excerpt     string `validate:"max=500"`
	Body        string `validate:"required"`
	ImageURL    string
	Author      string `validate:"max=120"`
	IsPublished bool
}

// NewsFilter filters an article listing.
type NewsFilter struct {
	PageOptions
	PublishedOnly bool
}

// NewsService manages news articles.
type NewsService struct {
	repo *store.Repository[news.Article]
	now  func() time.Time
}

// NewNewsService creates a new news service.
func NewNewsService(repo *store.Repository[news.Article], now func() time.Time) *NewsService {
	return &NewsService{repo: repo, now: now}
}

// List returns a page of articles, newest first.
func (s *NewsService) List(ctx context.Context, f NewsFilter) (store.Page[news.Article], error) {
	q := f.query("COALESCE(published_at, created_at) desc")
	if f.PublishedOnly {
		q = q.Where("is_published = ?", true)
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return page, translate(err, "articles", "")
	}
	return page, nil
}

// Get returns an article by ID.
func (s *NewsService) Get(ctx context.Context, id string) (*news.Article, error) {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "article", id)
	}
	return a, nil
}

// GetBySlug returns an article by slug. With publishedOnly, drafts are not found.
func (s *NewsService) GetBySlug(ctx context.Context, slug string, publishedOnly bool) (*news.Article, error) {
	a, err := s.repo.FindBy(ctx, "slug", slug)
	if err != nil {
		return nil, translate(err, "article", slug)
	}
	if publishedOnly && !a.IsPublished {
		return nil, translate(store.ErrNotFound, "article", slug)
	}
	return a, nil
}

// Create creates an article with a unique slug.
func (s *NewsService) Create(ctx context.Context, in ArticleInput) (*news.Article, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	base := in.Slug
	if base == "" {
		base = in.Title
	}
	slug, err := s.uniqueSlug(ctx, news.Slugify(base), "")
	if err != nil {
		return nil, err
	}

	a := &news.Article{ID: uuid.NewString(), Slug: slug}
	s.apply(a, in)
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, translate(err, "article", a.Slug)
	}
	zlog.Info().Msgf("article created: id=%s slug=%s published=%t", a.ID, a.Slug, a.IsPublished)
	return a, nil
}

// Update replaces the editable fields of an article. The slug only changes
// when a new one is given explicitly.
func (s *NewsService) Update(ctx context.Context, id string, in ArticleInput) (*news.Article, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Slug != "" && news.Slugify(in.Slug) != a.Slug {
		slug, err := s.uniqueSlug(ctx, news.Slugify(in.Slug), a.ID)
		if err != nil {
			return nil, err
		}
		a.Slug = slug
	}

	s.apply(a, in)
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, translate(err, "article", id)
	}
	zlog.Info().Msgf("article updated: id=%s slug=%s", a.ID, a.Slug)
	return a, nil
}

// Delete deletes an article.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "article", id)
	}
	zlog.Info().Msgf("article deleted: id=%s", id)
	return nil
}

// Count returns the number of articles.
func (s *NewsService) Count(ctx context.Context, publishedOnly bool) (int64, error) {
	q := store.Query{}
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	return s.repo.Count(ctx, q)
}

func (s *NewsService) apply(a *news.Article, in ArticleInput) {
	a.Title = in.Title
	a.Excerpt = in.Excerpt
	a.Body = in.Body
	a.ImageURL = in.ImageURL
	a.Author = in.Author
	if in.IsPublished {
		a.Publish(s.now())
	} else {
		a.Unpublish()
	}
}

// uniqueSlug returns base, or base suffixed with -2, -3, ... when taken by
// another article than selfID.
func (s *NewsService) uniqueSlug(ctx context.Context, base, selfID string) (string, error) {
	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		existing, err := s.repo.FindBy(ctx, "slug", candidate)
		if errors.Is(err, store.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", translate(err, "article", candidate)
		}
		if existing.ID == selfID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", errors.Mark(errors.Newf("no free slug for %q", base), ErrConflict)
}
