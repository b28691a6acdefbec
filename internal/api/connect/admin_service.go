package connect

import (
	"bytes"
	"context"
	"sync"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/onair/internal/api/onairv1"
	"github.com/osa030/onair/internal/app/content"
	"github.com/osa030/onair/internal/app/notification"
	"github.com/osa030/onair/internal/app/podcastimport"
	"github.com/osa030/onair/internal/domain/contact"
	"github.com/osa030/onair/internal/infra/assets"
	"github.com/osa030/onair/internal/infra/metrics"
)

// AdminService implements the AdminService RPC. Every procedure requires an
// authenticated admin.
type AdminService struct {
	content       *content.Services
	importer      *podcastimport.Importer
	assets        *assets.Store
	notifications *notification.Manager
	metrics       *metrics.Metrics

	done      chan struct{}
	closeOnce sync.Once
}

// AdminServiceDeps holds the collaborators of the AdminService.
type AdminServiceDeps struct {
	Content       *content.Services
	Importer      *podcastimport.Importer
	Assets        *assets.Store
	Notifications *notification.Manager
	Metrics       *metrics.Metrics // Optional
}

// NewAdminService creates a new AdminService.
func NewAdminService(deps AdminServiceDeps) *AdminService {
	return &AdminService{
		content:       deps.Content,
		importer:      deps.Importer,
		assets:        deps.Assets,
		notifications: deps.Notifications,
		metrics:       deps.Metrics,
		done:          make(chan struct{}),
	}
}

// Close ends all open inbox streams.
func (s *AdminService) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// ListPrograms returns a page of programs, including inactive ones.
func (s *AdminService) ListPrograms(
	ctx context.Context,
	req *connect.Request[onairv1.ListProgramsRequest],
) (*connect.Response[onairv1.ListProgramsResponse], error) {
	page, err := s.content.Programs.List(ctx, content.ProgramListOptions{
		PageOptions: toPageOptions(req.Msg.PageRequest),
		ActiveOnly:  req.Msg.ActiveOnly,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ListProgramsResponse{
		Programs:   convertList(page.Items, toProgram),
		Pagination: toPagination(page),
	}), nil
}

// CreateProgram creates a program.
func (s *AdminService) CreateProgram(
	ctx context.Context,
	req *connect.Request[onairv1.CreateProgramRequest],
) (*connect.Response[onairv1.ProgramResponse], error) {
	p, err := s.content.Programs.Create(ctx, fromProgram(req.Msg.Program))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ProgramResponse{Program: toProgram(p)}), nil
}

// UpdateProgram replaces the editable fields of a program.
func (s *AdminService) UpdateProgram(
	ctx context.Context,
	req *connect.Request[onairv1.UpdateProgramRequest],
) (*connect.Response[onairv1.ProgramResponse], error) {
	p, err := s.content.Programs.Update(ctx, req.Msg.ID, fromProgram(req.Msg.Program))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ProgramResponse{Program: toProgram(p)}), nil
}

// DeleteProgram deletes a program.
func (s *AdminService) DeleteProgram(
	ctx context.Context,
	req *connect.Request[onairv1.DeleteRequest],
) (*connect.Response[onairv1.DeleteResponse], error) {
	if err := s.content.Programs.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.DeleteResponse{}), nil
}

// ListPodcasts returns a page of episodes, including drafts unless PublishedOnly is set.
func (s *AdminService) ListPodcasts(
	ctx context.Context,
	req *connect.Request[onairv1.AdminListPodcastsRequest],
) (*connect.Response[onairv1.ListPodcastsResponse], error) {
	page, err := s.content.Podcasts.List(ctx, content.PodcastFilter{
		PageOptions:   toPageOptions(req.Msg.PageRequest),
		ProgramID:     req.Msg.ProgramID,
		PublishedOnly: req.Msg.PublishedOnly,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ListPodcastsResponse{
		Podcasts:   convertList(page.Items, toPodcast),
		Pagination: toPagination(page),
	}), nil
}

// CreatePodcast creates an episode.
func (s *AdminService) CreatePodcast(
	ctx context.Context,
	req *connect.Request[onairv1.CreatePodcastRequest],
) (*connect.Response[onairv1.PodcastResponse], error) {
	p, err := s.content.Podcasts.Create(ctx, fromPodcast(req.Msg.Podcast))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.PodcastResponse{Podcast: toPodcast(p)}), nil
}

// UpdatePodcast replaces the editable fields of an episode.
func (s *AdminService) UpdatePodcast(
	ctx context.Context,
	req *connect.Request[onairv1.UpdatePodcastRequest],
) (*connect.Response[onairv1.PodcastResponse], error) {
	p, err := s.content.Podcasts.Update(ctx, req.Msg.ID, fromPodcast(req.Msg.Podcast))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.PodcastResponse{Podcast: toPodcast(p)}), nil
}

// DeletePodcast deletes an episode.
func (s *AdminService) DeletePodcast(
	ctx context.Context,
	req *connect.Request[onairv1.DeleteRequest],
) (*connect.Response[onairv1.DeleteResponse], error) {
	if err := s.content.Podcasts.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.DeleteResponse{}), nil
}

// ImportPodcasts imports the new episodes of a Spotify show.
func (s *AdminService) ImportPodcasts(
	ctx context.Context,
	req *connect.Request[onairv1.ImportPodcastsRequest],
) (*connect.Response[onairv1.ImportPodcastsResponse], error) {
	result, err := s.importer.Import(ctx, podcastimport.Request{
		ShowURL:   req.Msg.ShowURL,
		ProgramID: req.Msg.ProgramID,
		Publish:   req.Msg.Publish,
	})
	if result != nil {
		s.metrics.AddImportedEpisodes(len(result.Imported))
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ImportPodcastsResponse{
		Imported: convertList(result.Imported, toPodcast),
		Skipped:  result.Skipped,
		NoAudio:  result.NoAudio,
	}), nil
}

// ListNews returns a page of articles, including drafts unless PublishedOnly is set.
func (s *AdminService) ListNews(
	ctx context.Context,
	req *connect.Request[onairv1.AdminListNewsRequest],
) (*connect.Response[onairv1.ListNewsResponse], error) {
	page, err := s.content.News.List(ctx, content.NewsFilter{
		PageOptions:   toPageOptions(req.Msg.PageRequest),
		PublishedOnly: req.Msg.PublishedOnly,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ListNewsResponse{
		Articles:   convertList(page.Items, toArticle),
		Pagination: toPagination(page),
	}), nil
}

// CreateArticle creates an article.
func (s *AdminService) CreateArticle(
	ctx context.Context,
	req *connect.Request[onairv1.CreateArticleRequest],
) (*connect.Response[onairv1.ArticleResponse], error) {
	a, err := s.content.News.Create(ctx, fromArticle(req.Msg.Article))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ArticleResponse{Article: toArticle(a)}), nil
}

// UpdateArticle replaces the editable fields of an article.
func (s *AdminService) UpdateArticle(
	ctx context.Context,
	req *connect.Request[onairv1.UpdateArticleRequest],
) (*connect.Response[onairv1.ArticleResponse], error) {
	a, err := s.content.News.Update(ctx, req.Msg.ID, fromArticle(req.Msg.Article))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ArticleResponse{Article: toArticle(a)}), nil
}

// DeleteArticle deletes an article.
func (s *AdminService) DeleteArticle(
	ctx context.Context,
	req *connect.Request[onairv1.DeleteRequest],
) (*connect.Response[onairv1.DeleteResponse], error) {
	if err := s.content.News.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.DeleteResponse{}), nil
}

// ListTeam returns the team members in display order.
func (s *AdminService) ListTeam(
	ctx context.Context,
	req *connect.Request[onairv1.AdminListTeamRequest],
) (*connect.Response[onairv1.ListTeamResponse], error) {
	members, err := s.content.Team.List(ctx, req.Msg.ActiveOnly)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ListTeamResponse{
		Members: convertList(members, toMember),
	}), nil
}

// CreateMember creates a team member.
func (s *AdminService) CreateMember(
	ctx context.Context,
	req *connect.Request[onairv1.CreateMemberRequest],
) (*connect.Response[onairv1.MemberResponse], error) {
	m, err := s.content.Team.Create(ctx, fromMember(req.Msg.Member))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.MemberResponse{Member: toMember(m)}), nil
}

// UpdateMember replaces the editable fields of a team member.
func (s *AdminService) UpdateMember(
	ctx context.Context,
	req *connect.Request[onairv1.UpdateMemberRequest],
) (*connect.Response[onairv1.MemberResponse], error) {
	m, err := s.content.Team.Update(ctx, req.Msg.ID, fromMember(req.Msg.Member))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.MemberResponse{Member: toMember(m)}), nil
}

// DeleteMember deletes a team member.
func (s *AdminService) DeleteMember(
	ctx context.Context,
	req *connect.Request[onairv1.DeleteRequest],
) (*connect.Response[onairv1.DeleteResponse], error) {
	if err := s.content.Team.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.DeleteResponse{}), nil
}

// ListMessages returns a page of contact messages, newest first.
func (s *AdminService) ListMessages(
	ctx context.Context,
	req *connect.Request[onairv1.ListMessagesRequest],
) (*connect.Response[onairv1.ListMessagesResponse], error) {
	var status contact.Status
	if req.Msg.Status != "" {
		parsed, err := parseStatus(req.Msg.Status)
		if err != nil {
			return nil, toConnectError(err)
		}
		status = parsed
	}

	page, err := s.content.Contacts.List(ctx, content.MessageFilter{
		PageOptions: toPageOptions(req.Msg.PageRequest),
		Status:      status,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	unread, err := s.content.Contacts.UnreadCount(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.ListMessagesResponse{
		Messages:    convertList(page.Items, toContactMessage),
		Pagination:  toPagination(page),
		UnreadCount: unread,
	}), nil
}

// SetMessageStatus marks a message unread, read or archived.
func (s *AdminService) SetMessageStatus(
	ctx context.Context,
	req *connect.Request[onairv1.SetMessageStatusRequest],
) (*connect.Response[onairv1.SetMessageStatusResponse], error) {
	status, err := parseStatus(req.Msg.Status)
	if err != nil {
		return nil, toConnectError(err)
	}
	m, err := s.content.Contacts.SetStatus(ctx, req.Msg.ID, status)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.SetMessageStatusResponse{Message: toContactMessage(m)}), nil
}

// DeleteMessage deletes a contact message.
func (s *AdminService) DeleteMessage(
	ctx context.Context,
	req *connect.Request[onairv1.DeleteRequest],
) (*connect.Response[onairv1.DeleteResponse], error) {
	if err := s.content.Contacts.Delete(ctx, req.Msg.ID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.DeleteResponse{}), nil
}

// WatchInbox streams inbox changes. The first event is a snapshot carrying
// the current unread count.
func (s *AdminService) WatchInbox(
	ctx context.Context,
	req *connect.Request[onairv1.WatchInboxRequest],
	stream *connect.ServerStream[onairv1.InboxEvent],
) error {
	unread, err := s.content.Contacts.UnreadCount(ctx)
	if err != nil {
		return toConnectError(err)
	}
	if err := stream.Send(&onairv1.InboxEvent{
		SequenceNo:  s.notifications.NextSequenceNo(),
		Type:        onairv1.InboxEventSnapshot,
		UnreadCount: unread,
	}); err != nil {
		return err
	}

	adapter := &inboxStreamAdapter{stream: stream}
	subscriptionID := s.notifications.Subscribe(adapter)

	// Wait for client disconnect or server shutdown
	select {
	case <-ctx.Done():
	case <-s.done:
	}

	s.notifications.Unsubscribe(subscriptionID)
	return nil
}

// UploadImage stores an uploaded image and returns its public URL.
func (s *AdminService) UploadImage(
	ctx context.Context,
	req *connect.Request[onairv1.UploadImageRequest],
) (*connect.Response[onairv1.UploadImageResponse], error) {
	asset, err := s.assets.Save(ctx, req.Msg.Folder, req.Msg.Filename, bytes.NewReader(req.Msg.Data))
	if err != nil {
		return nil, toConnectError(err)
	}
	s.metrics.IncUploads()
	return connect.NewResponse(&onairv1.UploadImageResponse{
		URL:         asset.URL,
		ContentType: asset.ContentType,
		Size:        asset.Size,
	}), nil
}

// DeleteImage deletes an uploaded image by its public URL.
func (s *AdminService) DeleteImage(
	ctx context.Context,
	req *connect.Request[onairv1.DeleteImageRequest],
) (*connect.Response[onairv1.DeleteImageResponse], error) {
	if err := s.assets.Delete(ctx, req.Msg.URL); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&onairv1.DeleteImageResponse{}), nil
}

// GetDashboard returns content counts for the admin home page.
func (s *AdminService) GetDashboard(
	ctx context.Context,
	req *connect.Request[onairv1.GetDashboardRequest],
) (*connect.Response[onairv1.GetDashboardResponse], error) {
	resp := &onairv1.GetDashboardResponse{
		InboxWatchers: s.notifications.SubscriberCount(),
	}

	counts := []struct {
		dst   *int64
		count func() (int64, error)
	}{
		{&resp.Programs, func() (int64, error) { return s.content.Programs.Count(ctx, false) }},
		{&resp.ActivePrograms, func() (int64, error) { return s.content.Programs.Count(ctx, true) }},
		{&resp.Podcasts, func() (int64, error) { return s.content.Podcasts.Count(ctx, false) }},
		{&resp.PublishedPodcasts, func() (int64, error) { return s.content.Podcasts.Count(ctx, true) }},
		{&resp.Articles, func() (int64, error) { return s.content.News.Count(ctx, false) }},
		{&resp.PublishedArticles, func() (int64, error) { return s.content.News.Count(ctx, true) }},
		{&resp.Members, func() (int64, error) { return s.content.Team.Count(ctx) }},
		{&resp.Messages, func() (int64, error) { return s.content.Contacts.Count(ctx, "") }},
		{&resp.UnreadMessages, func() (int64, error) { return s.content.Contacts.UnreadCount(ctx) }},
	}
	for _, c := range counts {
		n, err := c.count()
		if err != nil {
			return nil, toConnectError(err)
		}
		*c.dst = n
	}
	return connect.NewResponse(resp), nil
}

func parseStatus(s string) (contact.Status, error) {
	status, err := contact.ParseStatus(s)
	if err != nil {
		return "", errors.Mark(err, content.ErrInvalidInput)
	}
	return status, nil
}
