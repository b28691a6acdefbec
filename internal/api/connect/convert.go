package connect

import (
	"github.com/osa030/onair/internal/api/onairv1"
	"github.com/osa030/onair/internal/app/content"
	"github.com/osa030/onair/internal/domain/admin"
	"github.com/osa030/onair/internal/domain/contact"
	"github.com/osa030/onair/internal/domain/news"
	"github.com/osa030/onair/internal/domain/podcast"
	"github.com/osa030/onair/internal/domain/program"
	"github.com/osa030/onair/internal/domain/team"
	"github.com/osa030/onair/internal/infra/store"
)

func toPagination[T any](p store.Page[T]) onairv1.Pagination {
	return onairv1.Pagination{
		Page:       p.Page,
		PageSize:   p.PageSize,
		Total:      p.Total,
		TotalPages: p.TotalPages,
	}
}

func toPageOptions(p onairv1.PageRequest) content.PageOptions {
	return content.PageOptions{Page: p.Page, PageSize: p.PageSize}
}

func convertList[T, U any](items []T, convert func(*T) U) []U {
	out := make([]U, 0, len(items))
	for i := range items {
		out = append(out, convert(&items[i]))
	}
	return out
}

func toProgram(p *program.Program) onairv1.Program {
	return onairv1.Program{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Host:        p.Host,
		ImageURL:    p.ImageURL,
		Weekday:     p.Weekday,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		IsActive:    p.IsActive,
	}
}

func fromProgram(p onairv1.Program) content.ProgramInput {
	return content.ProgramInput{
		Title:       p.Title,
		Description: p.Description,
		Host:        p.Host,
		ImageURL:    p.ImageURL,
		Weekday:     p.Weekday,
		StartTime:   p.StartTime,
		EndTime:     p.EndTime,
		IsActive:    p.IsActive,
	}
}

func toScheduleDay(d *content.ScheduleDay) onairv1.ScheduleDay {
	return onairv1.ScheduleDay{
		Weekday:  int(d.Weekday),
		Name:     d.Weekday.String(),
		Programs: convertList(d.Programs, toProgram),
	}
}

func toPodcast(p *podcast.Podcast) onairv1.Podcast {
	out := onairv1.Podcast{
		ID:              p.ID,
		Title:           p.Title,
		Description:     p.Description,
		AudioURL:        p.AudioURL,
		ImageURL:        p.ImageURL,
		DurationSeconds: p.DurationSeconds,
		DurationLabel:   p.DurationLabel(),
		EpisodeNumber:   p.EpisodeNumber,
		SeasonNumber:    p.SeasonNumber,
		IsPublished:     p.IsPublished,
		PublishedAt:     p.PublishedAt,
	}
	if p.ProgramID != nil {
		out.ProgramID = *p.ProgramID
	}
	if p.ExternalID != nil {
		out.ExternalID = *p.ExternalID
	}
	return out
}

func fromPodcast(p onairv1.Podcast) content.PodcastInput {
	return content.PodcastInput{
		Title:           p.Title,
		Description:     p.Description,
		AudioURL:        p.AudioURL,
		ImageURL:        p.ImageURL,
		DurationSeconds: p.DurationSeconds,
		EpisodeNumber:   p.EpisodeNumber,
		SeasonNumber:    p.SeasonNumber,
		ProgramID:       p.ProgramID,
		ExternalID:      p.ExternalID,
		IsPublished:     p.IsPublished,
	}
}

func toArticle(a *news.Article) onairv1.Article {
	return onairv1.Article{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        a.Slug,
		Excerpt:     a.Excerpt,
		Body:        a.Body,
		ImageURL:    a.ImageURL,
		Author:      a.Author,
		IsPublished: a.IsPublished,
		PublishedAt: a.PublishedAt,
	}
}

// toArticleSummary drops the body for listings.
func toArticleSummary(a *news.Article) onairv1.Article {
	out := toArticle(a)
	out.Body = ""
	return out
}

func fromArticle(a onairv1.Article) content.ArticleInput {
	return content.ArticleInput{
		Title:       a.Title,
		Slug:        a.Slug,
		Excerpt:     a.Excerpt,
		Body:        a.Body,
		ImageURL:    a.ImageURL,
		Author:      a.Author,
		IsPublished: a.IsPublished,
	}
}

func toMember(m *team.Member) onairv1.Member {
	return onairv1.Member{
		ID:        m.ID,
		Name:      m.Name,
		Role:      m.Role,
		Bio:       m.Bio,
		ImageURL:  m.ImageURL,
		Email:     m.Email,
		SortOrder: m.SortOrder,
		IsActive:  m.IsActive,
	}
}

func fromMember(m onairv1.Member) content.MemberInput {
	return content.MemberInput{
		Name:      m.Name,
		Role:      m.Role,
		Bio:       m.Bio,
		ImageURL:  m.ImageURL,
		Email:     m.Email,
		SortOrder: m.SortOrder,
		IsActive:  m.IsActive,
	}
}

func toContactMessage(m *contact.Message) onairv1.ContactMessage {
	return onairv1.ContactMessage{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Subject:   m.Subject,
		Body:      m.Body,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		ReadAt:    m.ReadAt,
	}
}

func toAdminUser(a *admin.Admin) onairv1.AdminUser {
	return onairv1.AdminUser{
		ID:          a.ID,
		Email:       a.Email,
		Name:        a.Name,
		LastLoginAt: a.LastLoginAt,
	}
}

func toInboxEvent(e content.InboxEvent) *onairv1.InboxEvent {
	out := &onairv1.InboxEvent{
		MessageID:   e.MessageID,
		UnreadCount: e.UnreadCount,
	}
	switch e.Type {
	case content.InboxMessageReceived:
		out.Type = onairv1.InboxEventMessageReceived
	case content.InboxStatusChanged:
		out.Type = onairv1.InboxEventStatusChanged
	case content.InboxMessageDeleted:
		out.Type = onairv1.InboxEventMessageDeleted
	}
	if e.Message != nil {
		m := toContactMessage(e.Message)
		out.Message = &m
	}
	return out
}
