// Package content provides the content listing and editing services of the
// station: programs, podcasts, news, team and contact messages.
package content

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/osa030/onair/internal/app/filter"
	"github.com/osa030/onair/internal/domain/contact"
	"github.com/osa030/onair/internal/domain/news"
	"github.com/osa030/onair/internal/domain/podcast"
	"github.com/osa030/onair/internal/domain/program"
	"github.com/osa030/onair/internal/domain/team"
	"github.com/osa030/onair/internal/infra/store"
)

var (
	// ErrInvalidInput is returned when an input fails validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a change conflicts with existing data.
	ErrConflict = errors.New("conflict")
)

var validate = validator.New()

// Options holds optional collaborators of the services.
type Options struct {
	Chain *filter.Chain    // Contact intake filters (nil accepts everything)
	Inbox Inbox            // Inbox event sink (nil discards events)
	Now   func() time.Time // Clock (default time.Now)
}

// Services groups all content services.
type Services struct {
	Programs *ProgramService
	Podcasts *PodcastService
	News     *NewsService
	Team     *TeamService
	Contacts *ContactService
}

// New creates all content services on top of the database.
func New(db *gorm.DB, opts Options) *Services {
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	programs := NewProgramService(store.NewRepository[program.Program](db), now)
	return &Services{
		Programs: programs,
		Podcasts: NewPodcastService(store.NewRepository[podcast.Podcast](db), programs, now),
		News:     NewNewsService(store.NewRepository[news.Article](db), now),
		Team:     NewTeamService(store.NewRepository[team.Member](db)),
		Contacts: NewContactService(store.NewRepository[contact.Message](db), opts.Chain, opts.Inbox, now),
	}
}

// validateInput validates struct tags and marks failures as ErrInvalidInput.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Mark(errors.Wrap(err, "validation failed"), ErrInvalidInput)
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fe.Field()+" failed "+fe.Tag()+"="+fe.Param())
		} else {
			parts = append(parts, fe.Field()+" failed "+fe.Tag())
		}
	}
	return errors.Mark(errors.Newf("invalid input: %s", strings.Join(parts, ", ")), ErrInvalidInput)
}

func invalidf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrInvalidInput)
}

// translate maps store errors to content errors.
func translate(err error, what, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound):
		return errors.Mark(errors.Newf("%s %q not found", what, id), ErrNotFound)
	case errors.Is(err, store.ErrDuplicate):
		return errors.Mark(errors.Wrapf(err, "%s %q already exists", what, id), ErrConflict)
	default:
		return errors.Wrapf(err, "failed to access %s", what)
	}
}

// PageOptions selects a page of a listing.
type PageOptions struct {
	Page     int
	PageSize int
}

func (p PageOptions) query(order string) store.Query {
	return store.Query{Page: p.Page, PageSize: p.PageSize, Order: order}
}
