package onairv1

import "time"

// DeleteRequest identifies a record to delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

type DeleteResponse struct{}

type CreateProgramRequest struct {
	Program Program `json:"program"`
}

type UpdateProgramRequest struct {
	ID      string  `json:"id"`
	Program Program `json:"program"`
}

type ProgramResponse struct {
	Program Program `json:"program"`
}

type AdminListPodcastsRequest struct {
	PageRequest
	ProgramID     string `json:"program_id,omitempty"`
	PublishedOnly bool   `json:"published_only,omitempty"`
}

type CreatePodcastRequest struct {
	Podcast Podcast `json:"podcast"`
}

type UpdatePodcastRequest struct {
	ID      string  `json:"id"`
	Podcast Podcast `json:"podcast"`
}

type PodcastResponse struct {
	Podcast Podcast `json:"podcast"`
}

type ImportPodcastsRequest struct {
	ShowURL   string `json:"show_url"` // Spotify show URL, URI or ID
	ProgramID string `json:"program_id,omitempty"`
	Publish   bool   `json:"publish,omitempty"`
}

type ImportPodcastsResponse struct {
	Imported []Podcast `json:"imported"`
	Skipped  int       `json:"skipped"`  // Already imported
	NoAudio  int       `json:"no_audio"` // No playable audio
}

type AdminListNewsRequest struct {
	PageRequest
	PublishedOnly bool `json:"published_only,omitempty"`
}

type CreateArticleRequest struct {
	Article Article `json:"article"`
}

type UpdateArticleRequest struct {
	ID      string  `json:"id"`
	Article Article `json:"article"`
}

type ArticleResponse struct {
	Article Article `json:"article"`
}

type AdminListTeamRequest struct {
	ActiveOnly bool `json:"active_only,omitempty"`
}

type CreateMemberRequest struct {
	Member Member `json:"member"`
}

type UpdateMemberRequest struct {
	ID     string `json:"id"`
	Member Member `json:"member"`
}

type MemberResponse struct {
	Member Member `json:"member"`
}

// ContactMessage is a message received through the contact form.
type ContactMessage struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone,omitempty"`
	Subject   string     `json:"subject,omitempty"`
	Body      string     `json:"body"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

type ListMessagesRequest struct {
	PageRequest
	Status string `json:"status,omitempty"` // unread, read, archived; empty for all
}

type ListMessagesResponse struct {
	Messages    []ContactMessage `json:"messages"`
	Pagination  Pagination       `json:"pagination"`
	UnreadCount int64            `json:"unread_count"`
}

type SetMessageStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type SetMessageStatusResponse struct {
	Message ContactMessage `json:"message"`
}

type WatchInboxRequest struct{}

// InboxEventType is the kind of an inbox event.
type InboxEventType string

const (
	InboxEventSnapshot        InboxEventType = "snapshot" // First event of every stream
	InboxEventMessageReceived InboxEventType = "message_received"
	InboxEventStatusChanged   InboxEventType = "status_changed"
	InboxEventMessageDeleted  InboxEventType = "message_deleted"
)

// InboxEvent is streamed to admins watching the inbox.
type InboxEvent struct {
	SequenceNo  uint64          `json:"sequence_no"`
	Type        InboxEventType  `json:"type"`
	Message     *ContactMessage `json:"message,omitempty"`
	MessageID   string          `json:"message_id,omitempty"`
	UnreadCount int64           `json:"unread_count"`
}

type UploadImageRequest struct {
	Folder   string `json:"folder"` // programs, podcasts, news, team
	Filename string `json:"filename"`
	Data     []byte `json:"data"` // base64 in JSON
}

type UploadImageResponse struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type DeleteImageRequest struct {
	URL string `json:"url"`
}

type DeleteImageResponse struct{}

type GetDashboardRequest struct{}

type GetDashboardResponse struct {
	Programs          int64 `json:"programs"`
	ActivePrograms    int64 `json:"active_programs"`
	Podcasts          int64 `json:"podcasts"`
	PublishedPodcasts int64 `json:"published_podcasts"`
	Articles          int64 `json:"articles"`
	PublishedArticles int64 `json:"published_articles"`
	Members           int64 `json:"members"`
	Messages          int64 `json:"messages"`
	UnreadMessages    int64 `json:"unread_messages"`
	InboxWatchers     int   `json:"inbox_watchers"`
}
