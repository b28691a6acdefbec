package onairv1

// Service names.
const (
	SiteServiceName  = "onair.v1.SiteService"
	AuthServiceName  = "onair.v1.AuthService"
	AdminServiceName = "onair.v1.AdminService"
)

// Service path prefixes, for mounting handlers.
const (
	SiteServicePath  = "/" + SiteServiceName + "/"
	AuthServicePath  = "/" + AuthServiceName + "/"
	AdminServicePath = "/" + AdminServiceName + "/"
)

// SiteService procedures.
const (
	SiteServiceGetStationProcedure    = SiteServicePath + "GetStation"
	SiteServiceListProgramsProcedure  = SiteServicePath + "ListPrograms"
	SiteServiceGetScheduleProcedure   = SiteServicePath + "GetSchedule"
	SiteServiceListPodcastsProcedure  = SiteServicePath + "ListPodcasts"
	SiteServiceGetPodcastProcedure    = SiteServicePath + "GetPodcast"
	SiteServiceListNewsProcedure      = SiteServicePath + "ListNews"
	SiteServiceGetArticleProcedure    = SiteServicePath + "GetArticle"
	SiteServiceListTeamProcedure      = SiteServicePath + "ListTeam"
	SiteServiceSubmitContactProcedure = SiteServicePath + "SubmitContact"
)

// AuthService procedures.
const (
	AuthServiceLoginProcedure  = AuthServicePath + "Login"
	AuthServiceLogoutProcedure = AuthServicePath + "Logout"
	AuthServiceMeProcedure     = AuthServicePath + "Me"
)

// AdminService procedures.
const (
	AdminServiceListProgramsProcedure     = AdminServicePath + "ListPrograms"
	AdminServiceCreateProgramProcedure    = AdminServicePath + "CreateProgram"
	AdminServiceUpdateProgramProcedure    = AdminServicePath + "UpdateProgram"
	AdminServiceDeleteProgramProcedure    = AdminServicePath + "DeleteProgram"
	AdminServiceListPodcastsProcedure     = AdminServicePath + "ListPodcasts"
	AdminServiceCreatePodcastProcedure    = AdminServicePath + "CreatePodcast"
	AdminServiceUpdatePodcastProcedure    = AdminServicePath + "UpdatePodcast"
	AdminServiceDeletePodcastProcedure    = AdminServicePath + "DeletePodcast"
	AdminServiceImportPodcastsProcedure   = AdminServicePath + "ImportPodcasts"
	AdminServiceListNewsProcedure         = AdminServicePath + "ListNews"
	AdminServiceCreateArticleProcedure    = AdminServicePath + "CreateArticle"
	AdminServiceUpdateArticleProcedure    = AdminServicePath + "UpdateArticle"
	AdminServiceDeleteArticleProcedure    = AdminServicePath + "DeleteArticle"
	AdminServiceListTeamProcedure         = AdminServicePath + "ListTeam"
	AdminServiceCreateMemberProcedure     = AdminServicePath + "CreateMember"
	AdminServiceUpdateMemberProcedure     = AdminServicePath + "UpdateMember"
	AdminServiceDeleteMemberProcedure     = AdminServicePath + "DeleteMember"
	AdminServiceListMessagesProcedure     = AdminServicePath + "ListMessages"
	AdminServiceSetMessageStatusProcedure = AdminServicePath + "SetMessageStatus"
	AdminServiceDeleteMessageProcedure    = AdminServicePath + "DeleteMessage"
	AdminServiceWatchInboxProcedure       = AdminServicePath + "WatchInbox"
	AdminServiceUploadImageProcedure      = AdminServicePath + "UploadImage"
	AdminServiceDeleteImageProcedure      = AdminServicePath + "DeleteImage"
	AdminServiceGetDashboardProcedure     = AdminServicePath + "GetDashboard"
)
