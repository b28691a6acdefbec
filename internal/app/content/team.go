package content

import (
	"context"

	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/domain/team"
	"github.com/osa030/onair/internal/infra/store"
)

// MemberInput holds the editable fields of a team member.
type MemberInput struct {
	Name      string `validate:"required,max=120"`
	Role      string `validate:"max=120"`
	Bio       string `validate:"max=5000"`
	ImageURL  string
	Email     string `validate:"omitempty,email"`
	SortOrder int    `validate:"gte=0"`
	IsActive  bool
}

// TeamService manages team members.
type TeamService struct {
	repo *store.Repository[team.Member]
}

// NewTeamService creates a new team service.
func NewTeamService(repo *store.Repository[team.Member]) *TeamService {
	return &TeamService{repo: repo}
}

// List returns all members ordered by sort order, then name.
func (s *TeamService) List(ctx context.Context, activeOnly bool) ([]team.Member, error) {
	q := store.Query{Order: "sort_order asc, name asc"}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	members, err := s.repo.All(ctx, q)
	if err != nil {
		return nil, translate(err, "members", "")
	}
	return members, nil
}

// Get returns a member by ID.
func (s *TeamService) Get(ctx context.Context, id string) (*team.Member, error) {
	m, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "member", id)
	}
	return m, nil
}

// Create creates a member.
func (s *TeamService) Create(ctx context.Context, in MemberInput) (*team.Member, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	m := &team.Member{ID: uuid.NewString()}
	applyMember(m, in)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, translate(err, "member", m.ID)
	}
	zlog.Info().Msgf("member created: id=%s name=%s", m.ID, m.Name)
	return m, nil
}

// Update replaces the editable fields of a member.
func (s *TeamService) Update(ctx context.Context, id string, in MemberInput) (*team.Member, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyMember(m, in)
	if err := s.repo.Save(ctx, m); err != nil {
		return nil, translate(err, "member", id)
	}
	zlog.Info().Msgf("member updated: id=%s", id)
	return m, nil
}

// Delete deletes a member.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "member", id)
	}
	zlog.Info().Msgf("member deleted: id=%s", id)
	return nil
}

// Count returns the number of members.
func (s *TeamService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, store.Query{})
}

func applyMember(m *team.Member, in MemberInput) {
	m.Name = in.Name
	m.Role = in.Role
	m.Bio = in.Bio
	m.ImageURL = in.ImageURL
	m.Email = in.Email
	m.SortOrder = in.SortOrder
	m.IsActive = in.IsActive
}
