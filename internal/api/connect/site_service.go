package connect

import (
	"context"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/onair/internal/api/onairv1"
	"github.com/osa030/onair/internal/app/content"
	"github.com/osa030/onair/internal/infra/config"
	"github.com/osa030/onair/internal/infra/metrics"
)

// SiteService implements the public SiteService RPC.
// Only published and active content is visible through it.
type SiteService struct {
	content *content.Services
	config  *config.Config
	metrics *metrics.Metrics
}

// NewSiteService creates a new SiteService. m may be nil.
func NewSiteService(services *content.Services, cfg *config.Config, m *metrics.Metrics) *SiteService {
	return &SiteService{
		content: services,
		config:  cfg,
		metrics: m,
	}
}

// GetStation returns the station information and the program on air now.
func (s *SiteService) GetStation(
	ctx context.Context,
	req *connect.Request[onairv1.GetStationRequest],
) (*connect.Response[onairv1.GetStationResponse], error) {
	station := s.config.Station
	resp := &onairv1.GetStationResponse{
		Station: onairv1.Station{
			Name:         station.Name,
			Tagline:      station.Tagline,
			StreamURL:    station.StreamURL,
			ContactEmail: station.ContactEmail,
		},
	}

	onAir, err := s.content.Programs.OnAir(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	if onAir != nil {
		p := toProgram(onAir)
		resp.OnAir = &p
	}
	return connect.NewResponse(resp), nil
}

// ListPrograms returns a page of programs.
func (s *SiteService) ListPrograms(
	ctx context.Context,
	req *connect.Request[onairv1.ListProgramsRequest],
) (*connect.Response[onairv1.ListProgramsResponse], error) {
	page, err := s.content.Programs.List(ctx, content.ProgramListOptions{
		PageOptions: toPageOptions(req.Msg.PageRequest),
		ActiveOnly:  true,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ListProgramsResponse{
		Programs:   convertList(page.Items, toProgram),
		Pagination: toPagination(page),
	}), nil
}

// GetSchedule returns the weekly schedule, or a single day of it.
func (s *SiteService) GetSchedule(
	ctx context.Context,
	req *connect.Request[onairv1.GetScheduleRequest],
) (*connect.Response[onairv1.GetScheduleResponse], error) {
	days, err := s.content.Programs.Schedule(ctx, req.Msg.Weekday)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.GetScheduleResponse{
		Days: convertList(days, toScheduleDay),
	}), nil
}

// ListPodcasts returns a page of published episodes.
func (s *SiteService) ListPodcasts(
	ctx context.Context,
	req *connect.Request[onairv1.ListPodcastsRequest],
) (*connect.Response[onairv1.ListPodcastsResponse], error) {
	page, err := s.content.Podcasts.List(ctx, content.PodcastFilter{
		PageOptions:   toPageOptions(req.Msg.PageRequest),
		ProgramID:     req.Msg.ProgramID,
		PublishedOnly: true,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ListPodcastsResponse{
		Podcasts:   convertList(page.Items, toPodcast),
		Pagination: toPagination(page),
	}), nil
}

// GetPodcast returns a published episode.
func (s *SiteService) GetPodcast(
	ctx context.Context,
	req *connect.Request[onairv1.GetPodcastRequest],
) (*connect.Response[onairv1.GetPodcastResponse], error) {
	p, err := s.content.Podcasts.Get(ctx, req.Msg.ID, true)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.GetPodcastResponse{Podcast: toPodcast(p)}), nil
}

// ListNews returns a page of published articles without their bodies.
func (s *SiteService) ListNews(
	ctx context.Context,
	req *connect.Request[onairv1.ListNewsRequest],
) (*connect.Response[onairv1.ListNewsResponse], error) {
	page, err := s.content.News.List(ctx, content.NewsFilter{
		PageOptions:   toPageOptions(req.Msg.PageRequest),
		PublishedOnly: true,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ListNewsResponse{
		Articles:   convertList(page.Items, toArticleSummary),
		Pagination: toPagination(page),
	}), nil
}

// GetArticle returns a published article by slug.
func (s *SiteService) GetArticle(
	ctx context.Context,
	req *connect.Request[onairv1.GetArticleRequest],
) (*connect.Response[onairv1.GetArticleResponse], error) {
	a, err := s.content.News.GetBySlug(ctx, req.Msg.Slug, true)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.GetArticleResponse{Article: toArticle(a)}), nil
}

// ListTeam returns the active team members in display order.
func (s *SiteService) ListTeam(
	ctx context.Context,
	req *connect.Request[onairv1.ListTeamRequest],
) (*connect.Response[onairv1.ListTeamResponse], error) {
	members, err := s.content.Team.List(ctx, true)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ListTeamResponse{
		Members: convertList(members, toMember),
	}), nil
}

// SubmitContact handles contact form submissions. Filter rejections are
// reported in the response with the configured user-facing message.
func (s *SiteService) SubmitContact(
	ctx context.Context,
	req *connect.Request[onairv1.SubmitContactRequest],
) (*connect.Response[onairv1.SubmitContactResponse], error) {
	result, err := s.content.Contacts.Submit(ctx, content.SubmissionInput{
		Name:    req.Msg.Name,
		Email:   req.Msg.Email,
		Phone:   req.Msg.Phone,
		Subject: req.Msg.Subject,
		Body:    req.Msg.Message,
	})
	if err != nil {
		if errors.Is(err, content.ErrInvalidInput) {
			s.metrics.IncContactSubmission("invalid_input")
		} else {
			s.metrics.IncErrors()
		}
		return nil, toConnectError(err)
	}
	s.metrics.IncContactSubmission(result.Code)

	return connect.NewResponse(&onairv1.SubmitContactResponse{
		Accepted: result.Accepted,
		Code:     result.Code,
		Message:  s.config.GetMessage(result.Code),
	}), nil
}
