// Package news provides the Article domain entity.
package news

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxSlugLength = 80
	fallbackSlug  = "article"
)

// Article represents a news post.
type Article struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Slug        string     `gorm:"uniqueIndex;size:96;not null" json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Body        string     `gorm:"type:text" json:"body"`
	ImageURL    string     `json:"image_url"`
	Author      string     `json:"author"`
	IsPublished bool       `gorm:"index" json:"is_published"`
	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Publish marks the article as published at the given time.
// The first publication time is kept on republish.
func (a *Article) Publish(now time.Time) {
	a.IsPublished = true
	if a.PublishedAt == nil {
		a.PublishedAt = &now
	}
}

// Unpublish hides the article from the public site.
func (a *Article) Unpublish() {
	a.IsPublished = false
}

// Slugify derives a URL slug from a title: accents are stripped, letters and
// digits kept in lower case, everything else collapsed into single hyphens.
func Slugify(title string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder
	hyphen := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			hyphen = false
		case b.Len() > 0 && !hyphen:
			b.WriteByte('-')
			hyphen = true
		}
	}

	slug := strings.TrimSuffix(b.String(), "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimSuffix(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}
