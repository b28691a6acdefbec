package onairv1

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// AuthorizationHeader carries the admin bearer token.
const AuthorizationHeader = "Authorization"

// unary wraps a Connect client for one procedure.
type unary[Req, Res any] struct {
	client *connect.Client[Req, Res]
	token  *string
}

func newUnary[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, token *string, opts []connect.ClientOption) unary[Req, Res] {
	return unary[Req, Res]{
		client: connect.NewClient[Req, Res](httpClient, baseURL+procedure, opts...),
		token:  token,
	}
}

func (u unary[Req, Res]) call(ctx context.Context, msg *Req) (*Res, error) {
	req := connect.NewRequest(msg)
	setToken(req.Header(), u.token)
	res, err := u.client.CallUnary(ctx, req)
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func setToken(h http.Header, token *string) {
	if token != nil && *token != "" {
		h.Set(AuthorizationHeader, "Bearer "+*token)
	}
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

func trimBase(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

// SiteServiceClient calls the public SiteService.
type SiteServiceClient struct {
	getStation    unary[GetStationRequest, GetStationResponse]
	listPrograms  unary[ListProgramsRequest, ListProgramsResponse]
	getSchedule   unary[GetScheduleRequest, GetScheduleResponse]
	listPodcasts  unary[ListPodcastsRequest, ListPodcastsResponse]
	getPodcast    unary[GetPodcastRequest, GetPodcastResponse]
	listNews      unary[ListNewsRequest, ListNewsResponse]
	getArticle    unary[GetArticleRequest, GetArticleResponse]
	listTeam      unary[ListTeamRequest, ListTeamResponse]
	submitContact unary[SubmitContactRequest, SubmitContactResponse]
}

// NewSiteServiceClient creates a SiteService client.
func NewSiteServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *SiteServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	return &SiteServiceClient{
		getStation:    newUnary[GetStationRequest, GetStationResponse](httpClient, baseURL, SiteServiceGetStationProcedure, nil, opts),
		listPrograms:  newUnary[ListProgramsRequest, ListProgramsResponse](httpClient, baseURL, SiteServiceListProgramsProcedure, nil, opts),
		getSchedule:   newUnary[GetScheduleRequest, GetScheduleResponse](httpClient, baseURL, SiteServiceGetScheduleProcedure, nil, opts),
		listPodcasts:  newUnary[ListPodcastsRequest, ListPodcastsResponse](httpClient, baseURL, SiteServiceListPodcastsProcedure, nil, opts),
		getPodcast:    newUnary[GetPodcastRequest, GetPodcastResponse](httpClient, baseURL, SiteServiceGetPodcastProcedure, nil, opts),
		listNews:      newUnary[ListNewsRequest, ListNewsResponse](httpClient, baseURL, SiteServiceListNewsProcedure, nil, opts),
		getArticle:    newUnary[GetArticleRequest, GetArticleResponse](httpClient, baseURL, SiteServiceGetArticleProcedure, nil, opts),
		listTeam:      newUnary[ListTeamRequest, ListTeamResponse](httpClient, baseURL, SiteServiceListTeamProcedure, nil, opts),
		submitContact: newUnary[SubmitContactRequest, SubmitContactResponse](httpClient, baseURL, SiteServiceSubmitContactProcedure, nil, opts),
	}
}

func (c *SiteServiceClient) GetStation(ctx context.Context, req *GetStationRequest) (*GetStationResponse, error) {
	return c.getStation.call(ctx, req)
}

func (c *SiteServiceClient) ListPrograms(ctx context.Context, req *ListProgramsRequest) (*ListProgramsResponse, error) {
	return c.listPrograms.call(ctx, req)
}

func (c *SiteServiceClient) GetSchedule(ctx context.Context, req *GetScheduleRequest) (*GetScheduleResponse, error) {
	return c.getSchedule.call(ctx, req)
}

func (c *SiteServiceClient) ListPodcasts(ctx context.Context, req *ListPodcastsRequest) (*ListPodcastsResponse, error) {
	return c.listPodcasts.call(ctx, req)
}

func (c *SiteServiceClient) GetPodcast(ctx context.Context, req *GetPodcastRequest) (*GetPodcastResponse, error) {
	return c.getPodcast.call(ctx, req)
}

func (c *SiteServiceClient) ListNews(ctx context.Context, req *ListNewsRequest) (*ListNewsResponse, error) {
	return c.listNews.call(ctx, req)
}

func (c *SiteServiceClient) GetArticle(ctx context.Context, req *GetArticleRequest) (*GetArticleResponse, error) {
	return c.getArticle.call(ctx, req)
}

func (c *SiteServiceClient) ListTeam(ctx context.Context, req *ListTeamRequest) (*ListTeamResponse, error) {
	return c.listTeam.call(ctx, req)
}

func (c *SiteServiceClient) SubmitContact(ctx context.Context, req *SubmitContactRequest) (*SubmitContactResponse, error) {
	return c.submitContact.call(ctx, req)
}

// AuthServiceClient calls the AuthService. Logout and Me send the token
// stored by a successful Login or SetToken.
type AuthServiceClient struct {
	token  *string
	login  unary[LoginRequest, LoginResponse]
	logout unary[LogoutRequest, LogoutResponse]
	me     unary[MeRequest, MeResponse]
}

// NewAuthServiceClient creates an AuthService client.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AuthServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	token := new(string)
	return &AuthServiceClient{
		token:  token,
		login:  newUnary[LoginRequest, LoginResponse](httpClient, baseURL, AuthServiceLoginProcedure, nil, opts),
		logout: newUnary[LogoutRequest, LogoutResponse](httpClient, baseURL, AuthServiceLogoutProcedure, token, opts),
		me:     newUnary[MeRequest, MeResponse](httpClient, baseURL, AuthServiceMeProcedure, token, opts),
	}
}

// SetToken sets the bearer token.
func (c *AuthServiceClient) SetToken(token string) {
	*c.token = token
}

func (c *AuthServiceClient) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	res, err := c.login.call(ctx, req)
	if err != nil {
		return nil, err
	}
	*c.token = res.Token
	return res, nil
}

func (c *AuthServiceClient) Logout(ctx context.Context, req *LogoutRequest) (*LogoutResponse, error) {
	res, err := c.logout.call(ctx, req)
	if err != nil {
		return nil, err
	}
	*c.token = ""
	return res, nil
}

func (c *AuthServiceClient) Me(ctx context.Context, req *MeRequest) (*MeResponse, error) {
	return c.me.call(ctx, req)
}

// AdminServiceClient calls the AdminService with a bearer token.
type AdminServiceClient struct {
	token *string

	listPrograms     unary[ListProgramsRequest, ListProgramsResponse]
	createProgram    unary[CreateProgramRequest, ProgramResponse]
	updateProgram    unary[UpdateProgramRequest, ProgramResponse]
	deleteProgram    unary[DeleteRequest, DeleteResponse]
	listPodcasts     unary[AdminListPodcastsRequest, ListPodcastsResponse]
	createPodcast    unary[CreatePodcastRequest, PodcastResponse]
	updatePodcast    unary[UpdatePodcastRequest, PodcastResponse]
	deletePodcast    unary[DeleteRequest, DeleteResponse]
	importPodcasts   unary[ImportPodcastsRequest, ImportPodcastsResponse]
	listNews         unary[AdminListNewsRequest, ListNewsResponse]
	createArticle    unary[CreateArticleRequest, ArticleResponse]
	updateArticle    unary[UpdateArticleRequest, ArticleResponse]
	deleteArticle    unary[DeleteRequest, DeleteResponse]
	listTeam         unary[AdminListTeamRequest, ListTeamResponse]
	createMember     unary[CreateMemberRequest, MemberResponse]
	updateMember     unary[UpdateMemberRequest, MemberResponse]
	deleteMember     unary[DeleteRequest, DeleteResponse]
	listMessages     unary[ListMessagesRequest, ListMessagesResponse]
	setMessageStatus unary[SetMessageStatusRequest, SetMessageStatusResponse]
	deleteMessage    unary[DeleteRequest, DeleteResponse]
	uploadImage      unary[UploadImageRequest, UploadImageResponse]
	deleteImage      unary[DeleteImageRequest, DeleteImageResponse]
	getDashboard     unary[GetDashboardRequest, GetDashboardResponse]
	watchInbox       *connect.Client[WatchInboxRequest, InboxEvent]
}

// NewAdminServiceClient creates an AdminService client using the given token.
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL, token string, opts ...connect.ClientOption) *AdminServiceClient {
	baseURL = trimBase(baseURL)
	opts = clientOptions(opts)
	t := &token
	return &AdminServiceClient{
		token:            t,
		listPrograms:     newUnary[ListProgramsRequest, ListProgramsResponse](httpClient, baseURL, AdminServiceListProgramsProcedure, t, opts),
		createProgram:    newUnary[CreateProgramRequest, ProgramResponse](httpClient, baseURL, AdminServiceCreateProgramProcedure, t, opts),
		updateProgram:    newUnary[UpdateProgramRequest, ProgramResponse](httpClient, baseURL, AdminServiceUpdateProgramProcedure, t, opts),
		deleteProgram:    newUnary[DeleteRequest, DeleteResponse](httpClient, baseURL, AdminServiceDeleteProgramProcedure, t, opts),
		listPodcasts:     newUnary[AdminListPodcastsRequest, ListPodcastsResponse](httpClient, baseURL, AdminServiceListPodcastsProcedure, t, opts),
		createPodcast:    newUnary[CreatePodcastRequest, PodcastResponse](httpClient, baseURL, AdminServiceCreatePodcastProcedure, t, opts),
		updatePodcast:    newUnary[UpdatePodcastRequest, PodcastResponse](httpClient, baseURL, AdminServiceUpdatePodcastProcedure, t, opts),
		deletePodcast:    newUnary[DeleteRequest, DeleteResponse](httpClient, baseURL, AdminServiceDeletePodcastProcedure, t, opts),
		importPodcasts:   newUnary[ImportPodcastsRequest, ImportPodcastsResponse](httpClient, baseURL, AdminServiceImportPodcastsProcedure, t, opts),
		listNews:         newUnary[AdminListNewsRequest, ListNewsResponse](httpClient, baseURL, AdminServiceListNewsProcedure, t, opts),
		createArticle:    newUnary[CreateArticleRequest, ArticleResponse](httpClient, baseURL, AdminServiceCreateArticleProcedure, t, opts),
		updateArticle:    newUnary[UpdateArticleRequest, ArticleResponse](httpClient, baseURL, AdminServiceUpdateArticleProcedure, t, opts),
		deleteArticle:    newUnary[DeleteRequest, DeleteResponse](httpClient, baseURL, AdminServiceDeleteArticleProcedure, t, opts),
		listTeam:         newUnary[AdminListTeamRequest, ListTeamResponse](httpClient, baseURL, AdminServiceListTeamProcedure, t, opts),
		createMember:     newUnary[CreateMemberRequest, MemberResponse](httpClient, baseURL, AdminServiceCreateMemberProcedure, t, opts),
		updateMember:     newUnary[UpdateMemberRequest, MemberResponse](httpClient, baseURL, AdminServiceUpdateMemberProcedure, t, opts),
		deleteMember:     newUnary[DeleteRequest, DeleteResponse](httpClient, baseURL, AdminServiceDeleteMemberProcedure, t, opts),
		listMessages:     newUnary[ListMessagesRequest, ListMessagesResponse](httpClient, baseURL, AdminServiceListMessagesProcedure, t, opts),
		setMessageStatus: newUnary[SetMessageStatusRequest, SetMessageStatusResponse](httpClient, baseURL, AdminServiceSetMessageStatusProcedure, t, opts),
		deleteMessage:    newUnary[DeleteRequest, DeleteResponse](httpClient, baseURL, AdminServiceDeleteMessageProcedure, t, opts),
		uploadImage:      newUnary[UploadImageRequest, UploadImageResponse](httpClient, baseURL, AdminServiceUploadImageProcedure, t, opts),
		deleteImage:      newUnary[DeleteImageRequest, DeleteImageResponse](httpClient, baseURL, AdminServiceDeleteImageProcedure, t, opts),
		getDashboard:     newUnary[GetDashboardRequest, GetDashboardResponse](httpClient, baseURL, AdminServiceGetDashboardProcedure, t, opts),
		watchInbox:       connect.NewClient[WatchInboxRequest, InboxEvent](httpClient, baseURL+AdminServiceWatchInboxProcedure, opts...),
	}
}

func (c *AdminServiceClient) ListPrograms(ctx context.Context, req *ListProgramsRequest) (*ListProgramsResponse, error) {
	return c.listPrograms.call(ctx, req)
}

func (c *AdminServiceClient) CreateProgram(ctx context.Context, req *CreateProgramRequest) (*ProgramResponse, error) {
	return c.createProgram.call(ctx, req)
}

func (c *AdminServiceClient) UpdateProgram(ctx context.Context, req *UpdateProgramRequest) (*ProgramResponse, error) {
	return c.updateProgram.call(ctx, req)
}

func (c *AdminServiceClient) DeleteProgram(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	return c.deleteProgram.call(ctx, req)
}

func (c *AdminServiceClient) ListPodcasts(ctx context.Context, req *AdminListPodcastsRequest) (*ListPodcastsResponse, error) {
	return c.listPodcasts.call(ctx, req)
}

func (c *AdminServiceClient) CreatePodcast(ctx context.Context, req *CreatePodcastRequest) (*PodcastResponse, error) {
	return c.createPodcast.call(ctx, req)
}

func (c *AdminServiceClient) UpdatePodcast(ctx context.Context, req *UpdatePodcastRequest) (*PodcastResponse, error) {
	return c.updatePodcast.call(ctx, req)
}

func (c *AdminServiceClient) DeletePodcast(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	return c.deletePodcast.call(ctx, req)
}

func (c *AdminServiceClient) ImportPodcasts(ctx context.Context, req *ImportPodcastsRequest) (*ImportPodcastsResponse, error) {
	return c.importPodcasts.call(ctx, req)
}

func (c *AdminServiceClient) ListNews(ctx context.Context, req *AdminListNewsRequest) (*ListNewsResponse, error) {
	return c.listNews.call(ctx, req)
}

func (c *AdminServiceClient) CreateArticle(ctx context.Context, req *CreateArticleRequest) (*ArticleResponse, error) {
	return c.createArticle.call(ctx, req)
}

func (c *AdminServiceClient) UpdateArticle(ctx context.Context, req *UpdateArticleRequest) (*ArticleResponse, error) {
	return c.updateArticle.call(ctx, req)
}

func (c *AdminServiceClient) DeleteArticle(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	return c.deleteArticle.call(ctx, req)
}

func (c *AdminServiceClient) ListTeam(ctx context.Context, req *AdminListTeamRequest) (*ListTeamResponse, error) {
	return c.listTeam.call(ctx, req)
}

func (c *AdminServiceClient) CreateMember(ctx context.Context, req *CreateMemberRequest) (*MemberResponse, error) {
	return c.createMember.call(ctx, req)
}

func (c *AdminServiceClient) UpdateMember(ctx context.Context, req *UpdateMemberRequest) (*MemberResponse, error) {
	return c.updateMember.call(ctx, req)
}

func (c *AdminServiceClient) DeleteMember(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	return c.deleteMember.call(ctx, req)
}

func (c *AdminServiceClient) ListMessages(ctx context.Context, req *ListMessagesRequest) (*ListMessagesResponse, error) {
	return c.listMessages.call(ctx, req)
}

func (c *AdminServiceClient) SetMessageStatus(ctx context.Context, req *SetMessageStatusRequest) (*SetMessageStatusResponse, error) {
	return c.setMessageStatus.call(ctx, req)
}

func (c *AdminServiceClient) DeleteMessage(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error) {
	return c.deleteMessage.call(ctx, req)
}

func (c *AdminServiceClient) UploadImage(ctx context.Context, req *UploadImageRequest) (*UploadImageResponse, error) {
	return c.uploadImage.call(ctx, req)
}

func (c *AdminServiceClient) DeleteImage(ctx context.Context, req *DeleteImageRequest) (*DeleteImageResponse, error) {
	return c.deleteImage.call(ctx, req)
}

func (c *AdminServiceClient) GetDashboard(ctx context.Context, req *GetDashboardRequest) (*GetDashboardResponse, error) {
	return c.getDashboard.call(ctx, req)
}

// WatchInbox opens the inbox event stream.
func (c *AdminServiceClient) WatchInbox(ctx context.Context, req *WatchInboxRequest) (*connect.ServerStreamForClient[InboxEvent], error) {
	r := connect.NewRequest(req)
	setToken(r.Header(), c.token)
	return c.watchInbox.CallServerStream(ctx, r)
}
