package connect

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/osa030/onair/internal/api/onairv1"
)

// procedureMux routes requests of one service to its procedure handlers.
type procedureMux map[string]http.Handler

func (m procedureMux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h, ok := m[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}
	h.ServeHTTP(w, r)
}

func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(onairv1.Codec{})}, opts...)
}

// NewSiteServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSiteServiceHandler(svc *SiteService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := procedureMux{
		onairv1.SiteServiceGetStationProcedure:    connect.NewUnaryHandler(onairv1.SiteServiceGetStationProcedure, svc.GetStation, opts...),
		onairv1.SiteServiceListProgramsProcedure:  connect.NewUnaryHandler(onairv1.SiteServiceListProgramsProcedure, svc.ListPrograms, opts...),
		onairv1.SiteServiceGetScheduleProcedure:   connect.NewUnaryHandler(onairv1.SiteServiceGetScheduleProcedure, svc.GetSchedule, opts...),
		onairv1.SiteServiceListPodcastsProcedure:  connect.NewUnaryHandler(onairv1.SiteServiceListPodcastsProcedure, svc.ListPodcasts, opts...),
		onairv1.SiteServiceGetPodcastProcedure:    connect.NewUnaryHandler(onairv1.SiteServiceGetPodcastProcedure, svc.GetPodcast, opts...),
		onairv1.SiteServiceListNewsProcedure:      connect.NewUnaryHandler(onairv1.SiteServiceListNewsProcedure, svc.ListNews, opts...),
		onairv1.SiteServiceGetArticleProcedure:    connect.NewUnaryHandler(onairv1.SiteServiceGetArticleProcedure, svc.GetArticle, opts...),
		onairv1.SiteServiceListTeamProcedure:      connect.NewUnaryHandler(onairv1.SiteServiceListTeamProcedure, svc.ListTeam, opts...),
		onairv1.SiteServiceSubmitContactProcedure: connect.NewUnaryHandler(onairv1.SiteServiceSubmitContactProcedure, svc.SubmitContact, opts...),
	}
	return onairv1.SiteServicePath, mux
}

// NewAuthServiceHandler builds the AuthService handler. Login is public; Logout
// and Me require a valid token.
func NewAuthServiceHandler(svc *AuthService, authenticator Authenticator, opts ...connect.HandlerOption) (string, http.Handler) {
	interceptor := NewAuthInterceptor(authenticator, onairv1.AuthServiceLoginProcedure)
	opts = handlerOptions(append(opts, connect.WithInterceptors(interceptor)))
	mux := procedureMux{
		onairv1.AuthServiceLoginProcedure:  connect.NewUnaryHandler(onairv1.AuthServiceLoginProcedure, svc.Login, opts...),
		onairv1.AuthServiceLogoutProcedure: connect.NewUnaryHandler(onairv1.AuthServiceLogoutProcedure, svc.Logout, opts...),
		onairv1.AuthServiceMeProcedure:     connect.NewUnaryHandler(onairv1.AuthServiceMeProcedure, svc.Me, opts...),
	}
	return onairv1.AuthServicePath, mux
}

// NewAdminServiceHandler builds the AdminService handler. Every procedure
// requires a valid token.
func NewAdminServiceHandler(svc *AdminService, authenticator Authenticator, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(append(opts, connect.WithInterceptors(NewAuthInterceptor(authenticator))))
	mux := procedureMux{
		onairv1.AdminServiceListProgramsProcedure:     connect.NewUnaryHandler(onairv1.AdminServiceListProgramsProcedure, svc.ListPrograms, opts...),
		onairv1.AdminServiceCreateProgramProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceCreateProgramProcedure, svc.CreateProgram, opts...),
		onairv1.AdminServiceUpdateProgramProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceUpdateProgramProcedure, svc.UpdateProgram, opts...),
		onairv1.AdminServiceDeleteProgramProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceDeleteProgramProcedure, svc.DeleteProgram, opts...),
		onairv1.AdminServiceListPodcastsProcedure:     connect.NewUnaryHandler(onairv1.AdminServiceListPodcastsProcedure, svc.ListPodcasts, opts...),
		onairv1.AdminServiceCreatePodcastProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceCreatePodcastProcedure, svc.CreatePodcast, opts...),
		onairv1.AdminServiceUpdatePodcastProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceUpdatePodcastProcedure, svc.UpdatePodcast, opts...),
		onairv1.AdminServiceDeletePodcastProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceDeletePodcastProcedure, svc.DeletePodcast, opts...),
		onairv1.AdminServiceImportPodcastsProcedure:   connect.NewUnaryHandler(onairv1.AdminServiceImportPodcastsProcedure, svc.ImportPodcasts, opts...),
		onairv1.AdminServiceListNewsProcedure:         connect.NewUnaryHandler(onairv1.AdminServiceListNewsProcedure, svc.ListNews, opts...),
		onairv1.AdminServiceCreateArticleProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceCreateArticleProcedure, svc.CreateArticle, opts...),
		onairv1.AdminServiceUpdateArticleProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceUpdateArticleProcedure, svc.UpdateArticle, opts...),
		onairv1.AdminServiceDeleteArticleProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceDeleteArticleProcedure, svc.DeleteArticle, opts...),
		onairv1.AdminServiceListTeamProcedure:         connect.NewUnaryHandler(onairv1.AdminServiceListTeamProcedure, svc.ListTeam, opts...),
		onairv1.AdminServiceCreateMemberProcedure:     connect.NewUnaryHandler(onairv1.AdminServiceCreateMemberProcedure, svc.CreateMember, opts...),
		onairv1.AdminServiceUpdateMemberProcedure:     connect.NewUnaryHandler(onairv1.AdminServiceUpdateMemberProcedure, svc.UpdateMember, opts...),
		onairv1.AdminServiceDeleteMemberProcedure:     connect.NewUnaryHandler(onairv1.AdminServiceDeleteMemberProcedure, svc.DeleteMember, opts...),
		onairv1.AdminServiceListMessagesProcedure:     connect.NewUnaryHandler(onairv1.AdminServiceListMessagesProcedure, svc.ListMessages, opts...),
		onairv1.AdminServiceSetMessageStatusProcedure: connect.NewUnaryHandler(onairv1.AdminServiceSetMessageStatusProcedure, svc.SetMessageStatus, opts...),
		onairv1.AdminServiceDeleteMessageProcedure:    connect.NewUnaryHandler(onairv1.AdminServiceDeleteMessageProcedure, svc.DeleteMessage, opts...),
		onairv1.AdminServiceWatchInboxProcedure:       connect.NewServerStreamHandler(onairv1.AdminServiceWatchInboxProcedure, svc.WatchInbox, opts...),
		onairv1.AdminServiceUploadImageProcedure:      connect.NewUnaryHandler(onairv1.AdminServiceUploadImageProcedure, svc.UploadImage, opts...),
		onairv1.AdminServiceDeleteImageProcedure:      connect.NewUnaryHandler(onairv1.AdminServiceDeleteImageProcedure, svc.DeleteImage, opts...),
		onairv1.AdminServiceGetDashboardProcedure:     connect.NewUnaryHandler(onairv1.AdminServiceGetDashboardProcedure, svc.GetDashboard, opts...),
	}
	return onairv1.AdminServicePath, mux
}
