// Package onairv1 defines the messages, procedure names and clients of the
// onair.v1 Connect services.
package onairv1

import "time"

// Pagination describes the page returned by a listing.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// PageRequest selects a page of a listing.
type PageRequest struct {
	Page     int `json:"page,omitempty"`
	PageSize int `json:"page_size,omitempty"`
}

// Station is the live station information.
type Station struct {
	Name         string `json:"name"`
	Tagline      string `json:"tagline,omitempty"`
	StreamURL    string `json:"stream_url"`
	ContactEmail string `json:"contact_email,omitempty"`
}

type GetStationRequest struct{}

type GetStationResponse struct {
	Station Station  `json:"station"`
	OnAir   *Program `json:"on_air,omitempty"` // Program scheduled right now
}

// Program is a recurring weekly show.
type Program struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Host        string `json:"host,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	Weekday     int    `json:"weekday"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsActive    bool   `json:"is_active"`
}

type ListProgramsRequest struct {
	PageRequest
	ActiveOnly bool `json:"active_only,omitempty"`
}

type ListProgramsResponse struct {
	Programs   []Program  `json:"programs"`
	Pagination Pagination `json:"pagination"`
}

type GetScheduleRequest struct {
	Weekday *int `json:"weekday,omitempty"` // nil for the whole week
}

// ScheduleDay lists the active programs of one weekday ordered by start time.
type ScheduleDay struct {
	Weekday  int       `json:"weekday"`
	Name     string    `json:"name"`
	Programs []Program `json:"programs"`
}

type GetScheduleResponse struct {
	Days []ScheduleDay `json:"days"`
}

// Podcast is an on-demand episode.
type Podcast struct {
	ID              string     `json:"id,omitempty"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	AudioURL        string     `json:"audio_url"`
	ImageURL        string     `json:"image_url,omitempty"`
	DurationSeconds int        `json:"duration_seconds,omitempty"`
	DurationLabel   string     `json:"duration_label,omitempty"`
	EpisodeNumber   int        `json:"episode_number,omitempty"`
	SeasonNumber    int        `json:"season_number,omitempty"`
	ProgramID       string     `json:"program_id,omitempty"`
	ExternalID      string     `json:"external_id,omitempty"`
	IsPublished     bool       `json:"is_published"`
	PublishedAt     *time.Time `json:"published_at,omitempty"`
}

type ListPodcastsRequest struct {
	PageRequest
	ProgramID string `json:"program_id,omitempty"`
}

type ListPodcastsResponse struct {
	Podcasts   []Podcast  `json:"podcasts"`
	Pagination Pagination `json:"pagination"`
}

type GetPodcastRequest struct {
	ID string `json:"id"`
}

type GetPodcastResponse struct {
	Podcast Podcast `json:"podcast"`
}

// Article is a news post.
type Article struct {
	ID          string     `json:"id,omitempty"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug,omitempty"`
	Excerpt     string     `json:"excerpt,omitempty"`
	Body        string     `json:"body,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Author      string     `json:"author,omitempty"`
	IsPublished bool       `json:"is_published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

type ListNewsRequest struct {
	PageRequest
}

type ListNewsResponse struct {
	Articles   []Article  `json:"articles"`
	Pagination Pagination `json:"pagination"`
}

type GetArticleRequest struct {
	Slug string `json:"slug"`
}

type GetArticleResponse struct {
	Article Article `json:"article"`
}

// Member is a team member.
type Member struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	Bio       string `json:"bio,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`
	Email     string `json:"email,omitempty"`
	SortOrder int    `json:"sort_order"`
	IsActive  bool   `json:"is_active"`
}

type ListTeamRequest struct{}

type ListTeamResponse struct {
	Members []Member `json:"members"`
}

type SubmitContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

type SubmitContactResponse struct {
	Accepted bool   `json:"accepted"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}
