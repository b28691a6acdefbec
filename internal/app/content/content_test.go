package content

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/onair/internal/app/filter"
	"github.com/osa030/onair/internal/domain/contact"
	"github.com/osa030/onair/internal/infra/store/storetest"
)

// 2026-10-19 is a Monday.
var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type recordingInbox struct {
	mu     sync.Mutex
	events []InboxEvent
}

func (r *recordingInbox) Publish(ctx context.Context, e InboxEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func newTestServices(t *testing.T) (*Services, *recordingInbox, *time.Time) {
	t.Helper()
	now := testNow
	inbox := &recordingInbox{}
	svc := New(storetest.Open(t), Options{
		Inbox: inbox,
		Now:   func() time.Time { return now },
	})
	return svc, inbox, &now
}

func TestProgramService_CreateAndSchedule(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)

	morning, err := svc.Programs.Create(ctx, ProgramInput{Title: "Morning Show", Weekday: 1, StartTime: "08:00", EndTime: "10:00", IsActive: true})
	require.NoError(t, err)
	_, err = svc.Programs.Create(ctx, ProgramInput{Title: "Early Bird", Weekday: 1, StartTime: "06:00", EndTime: "08:00", IsActive: true})
	require.NoError(t, err)
	_, err = svc.Programs.Create(ctx, ProgramInput{Title: "Friday Night", Weekday: 5, StartTime: "20:00", EndTime: "22:00", IsActive: true})
	require.NoError(t, err)
	_, err = svc.Programs.Create(ctx, ProgramInput{Title: "Retired", Weekday: 1, StartTime: "08:30", EndTime: "09:00", IsActive: false})
	require.NoError(t, err, "inactive programs may overlap")

	days, err := svc.Programs.Schedule(ctx, nil)
	require.NoError(t, err)
	require.Len(t, days, 7)
	assert.Equal(t, time.Monday, days[1].Weekday)
	require.Len(t, days[1].Programs, 2)
	assert.Equal(t, "Early Bird", days[1].Programs[0].Title)
	assert.Equal(t, "Morning Show", days[1].Programs[1].Title)
	assert.Len(t, days[5].Programs, 1)
	assert.Empty(t, days[0].Programs)

	friday := 5
	days, err = svc.Programs.Schedule(ctx, &friday)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, "Friday Night", days[0].Programs[0].Title)

	onAir, err := svc.Programs.OnAir(ctx)
	require.NoError(t, err)
	require.NotNil(t, onAir)
	assert.Equal(t, morning.ID, onAir.ID)

	page, err := svc.Programs.List(ctx, ProgramListOptions{ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
}

func TestProgramService_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)

	_, err := svc.Programs.Create(ctx, ProgramInput{Title: "Morning", Weekday: 1, StartTime: "08:00", EndTime: "10:00", IsActive: true})
	require.NoError(t, err)

	tests := []struct {
		name    string
		input   ProgramInput
		wantErr error
	}{
		{name: "missing title", input: ProgramInput{Weekday: 1, StartTime: "11:00", EndTime: "12:00"}, wantErr: ErrInvalidInput},
		{name: "bad weekday", input: ProgramInput{Title: "X", Weekday: 9, StartTime: "11:00", EndTime: "12:00"}, wantErr: ErrInvalidInput},
		{name: "end before start", input: ProgramInput{Title: "X", Weekday: 1, StartTime: "12:00", EndTime: "11:00"}, wantErr: ErrInvalidInput},
		{name: "malformed time", input: ProgramInput{Title: "X", Weekday: 1, StartTime: "1a:00", EndTime: "12:00"}, wantErr: ErrInvalidInput},
		{name: "overlap", input: ProgramInput{Title: "X", Weekday: 1, StartTime: "09:00", EndTime: "11:00", IsActive: true}, wantErr: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Programs.Create(ctx, tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestProgramService_UpdateDelete(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)

	p, err := svc.Programs.Create(ctx, ProgramInput{Title: "Morning", Weekday: 1, StartTime: "08:00", EndTime: "10:00", IsActive: true})
	require.NoError(t, err)

	// Moving within its own slot is not an overlap with itself
	updated, err := svc.Programs.Update(ctx, p.ID, ProgramInput{Title: "Morning Plus", Weekday: 1, StartTime: "08:00", EndTime: "10:30", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "Morning Plus", updated.Title)

	require.NoError(t, svc.Programs.Delete(ctx, p.ID))
	_, err = svc.Programs.Get(ctx, p.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, errors.Is(svc.Programs.Delete(ctx, p.ID), ErrNotFound))
}

func TestPodcastService(t *testing.T) {
	ctx := context.Background()
	svc, _, now := newTestServices(t)

	first, err := svc.Podcasts.Create(ctx, PodcastInput{Title: "Ep 1", AudioURL: "https://cdn.example.com/1.mp3", EpisodeNumber: 1, IsPublished: true})
	require.NoError(t, err)
	require.NotNil(t, first.PublishedAt)

	*now = now.Add(24 * time.Hour)
	second, err := svc.Podcasts.Create(ctx, PodcastInput{Title: "Ep 2", AudioURL: "https://cdn.example.com/2.mp3", EpisodeNumber: 2, IsPublished: true, ExternalID: "spotify-2"})
	require.NoError(t, err)
	_, err = svc.Podcasts.Create(ctx, PodcastInput{Title: "Draft", AudioURL: "https://cdn.example.com/3.mp3", EpisodeNumber: 3})
	require.NoError(t, err)

	page, err := svc.Podcasts.List(ctx, PodcastFilter{PublishedOnly: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, second.ID, page.Items[0].ID, "newest first")
	assert.Equal(t, first.ID, page.Items[1].ID)

	found, err := svc.Podcasts.FindByExternalID(ctx, "spotify-2")
	require.NoError(t, err)
	assert.Equal(t, second.ID, found.ID)

	max, err := svc.Podcasts.MaxEpisodeNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, max)

	_, err = svc.Podcasts.Create(ctx, PodcastInput{Title: "Dup", AudioURL: "https://cdn.example.com/4.mp3", ExternalID: "spotify-2"})
	assert.True(t, errors.Is(err, ErrConflict), "got %v", err)

	_, err = svc.Podcasts.Create(ctx, PodcastInput{Title: "Orphan", AudioURL: "https://cdn.example.com/5.mp3", ProgramID: "missing"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = svc.Podcasts.Create(ctx, PodcastInput{Title: "Bad", AudioURL: "not-a-url"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	latest := page.Items[0]
	_, err = svc.Podcasts.Update(ctx, latest.ID, PodcastInput{Title: latest.Title, AudioURL: latest.AudioURL, IsPublished: false})
	require.NoError(t, err)
	_, err = svc.Podcasts.Get(ctx, latest.ID, true)
	assert.True(t, errors.Is(err, ErrNotFound), "unpublished episodes are hidden")
}

func TestPodcastService_FilterByProgram(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)

	p, err := svc.Programs.Create(ctx, ProgramInput{Title: "Talk", Weekday: 3, StartTime: "10:00", EndTime: "11:00"})
	require.NoError(t, err)
	_, err = svc.Podcasts.Create(ctx, PodcastInput{Title: "Talk 1", AudioURL: "https://cdn.example.com/t1.mp3", ProgramID: p.ID, IsPublished: true})
	require.NoError(t, err)
	_, err = svc.Podcasts.Create(ctx, PodcastInput{Title: "Other", AudioURL: "https://cdn.example.com/o.mp3", IsPublished: true})
	require.NoError(t, err)

	page, err := svc.Podcasts.List(ctx, PodcastFilter{ProgramID: p.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Talk 1", page.Items[0].Title)
}

func TestNewsService_Slugs(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)

	a1, err := svc.News.Create(ctx, ArticleInput{Title: "New Schedule!", Body: "Body", IsPublished: true})
	require.NoError(t, err)
	assert.Equal(t, "new-schedule", a1.Slug)

	a2, err := svc.News.Create(ctx, ArticleInput{Title: "New schedule", Body: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "new-schedule-2", a2.Slug)

	a3, err := svc.News.Create(ctx, ArticleInput{Title: "Another", Slug: "New Schedule", Body: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "new-schedule-3", a3.Slug)

	// Title changes keep the slug
	updated, err := svc.News.Update(ctx, a1.ID, ArticleInput{Title: "Renamed", Body: "Body", IsPublished: true})
	require.NoError(t, err)
	assert.Equal(t, "new-schedule", updated.Slug)

	// An explicit slug equal to its own is not a collision
	updated, err = svc.News.Update(ctx, a2.ID, ArticleInput{Title: "New schedule", Slug: "new-schedule-2", Body: "Body"})
	require.NoError(t, err)
	assert.Equal(t, "new-schedule-2", updated.Slug)

	got, err := svc.News.GetBySlug(ctx, "new-schedule", true)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, got.ID)

	_, err = svc.News.GetBySlug(ctx, "new-schedule-2", true)
	assert.True(t, errors.Is(err, ErrNotFound), "drafts are hidden")

	page, err := svc.News.List(ctx, NewsFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = svc.News.Create(ctx, ArticleInput{Title: "No body"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestTeamService(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestServices(t)

	_, err := svc.Team.Create(ctx, MemberInput{Name: "Zoe", SortOrder: 1, IsActive: true})
	require.NoError(t, err)
	_, err = svc.Team.Create(ctx, MemberInput{Name: "Al", SortOrder: 1, IsActive: true})
	require.NoError(t, err)
	lead, err := svc.Team.Create(ctx, MemberInput{Name: "Bea", Role: "Station Manager", SortOrder: 0, IsActive: true})
	require.NoError(t, err)
	_, err = svc.Team.Create(ctx, MemberInput{Name: "Former", SortOrder: 0, IsActive: false})
	require.NoError(t, err)

	members, err := svc.Team.List(ctx, true)
	require.NoError(t, err)
	var names []string
	for _, m := range members {
		names = append(names, m.Name)
	}
	assert.Equal(t, []string{"Bea", "Al", "Zoe"}, names)

	_, err = svc.Team.Update(ctx, lead.ID, MemberInput{Name: "Bea", Email: "not-an-email"})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	require.NoError(t, svc.Team.Delete(ctx, lead.ID))
	count, err := svc.Team.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestContactService_Submit(t *testing.T) {
	ctx := context.Background()
	svc, inbox, _ := newTestServices(t)

	res, err := svc.Contacts.Submit(ctx, SubmissionInput{Name: "Ana", Email: " Ana@Example.com ", Body: "Love the morning show"})
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, "success", res.Code)
	require.NotNil(t, res.Message)
	assert.NotEmpty(t, res.Message.ID)
	assert.Equal(t, contact.StatusUnread, res.Message.Status)
	assert.Equal(t, "ana@example.com", res.Message.Email)

	require.Len(t, inbox.events, 1)
	assert.Equal(t, InboxMessageReceived, inbox.events[0].Type)
	assert.Equal(t, int64(1), inbox.events[0].UnreadCount)

	_, err = svc.Contacts.Submit(ctx, SubmissionInput{Name: "Ana", Email: "not-an-email", Body: "Hi"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestContactService_SubmitFiltered(t *testing.T) {
	ctx := context.Background()
	svc, inbox, now := newTestServices(t)

	rate := filter.NewRateLimitFilter(svc.Contacts.History())
	require.NoError(t, rate.ValidateConfig(map[string]any{"max_messages": 2, "window_minutes": 60}))
	dup := filter.NewDuplicateMessageFilter(svc.Contacts.History())
	require.NoError(t, dup.ValidateConfig(nil))

	chain := filter.NewChain()
	chain.Add(dup)
	chain.Add(rate)
	svc.Contacts.SetChain(chain)

	submit := func(body string) SubmitResult {
		res, err := svc.Contacts.Submit(ctx, SubmissionInput{Name: "Ana", Email: "ana@example.com", Body: body})
		require.NoError(t, err)
		return res
	}

	assert.True(t, submit("first message").Accepted)

	res := submit("first message")
	assert.False(t, res.Accepted)
	assert.Equal(t, "duplicate_message", res.Code)

	assert.True(t, submit("second message").Accepted)

	res = submit("third message")
	assert.False(t, res.Accepted)
	assert.Equal(t, "rate_limited", res.Code)

	// The rate window slides
	*now = now.Add(2 * time.Hour)
	assert.True(t, submit("fourth message").Accepted)

	assert.Len(t, inbox.events, 3)
}

func TestContactService_Inbox(t *testing.T) {
	ctx := context.Background()
	svc, inbox, now := newTestServices(t)

	var ids []string
	for _, body := range []string{"one message", "two message", "three message"} {
		res, err := svc.Contacts.Submit(ctx, SubmissionInput{Name: "Ana", Email: "ana@example.com", Body: body})
		require.NoError(t, err)
		ids = append(ids, res.Message.ID)
		*now = now.Add(time.Minute)
	}

	page, err := svc.Contacts.List(ctx, MessageFilter{})
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "three message", page.Items[0].Body, "newest first")

	m, err := svc.Contacts.SetStatus(ctx, ids[0], contact.StatusRead)
	require.NoError(t, err)
	assert.Equal(t, contact.StatusRead, m.Status)
	assert.NotNil(t, m.ReadAt)

	_, err = svc.Contacts.SetStatus(ctx, ids[1], contact.Status("spam"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	unread, err := svc.Contacts.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), unread)

	page, err = svc.Contacts.List(ctx, MessageFilter{Status: contact.StatusRead})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, svc.Contacts.Delete(ctx, ids[2]))
	last := inbox.events[len(inbox.events)-1]
	assert.Equal(t, InboxMessageDeleted, last.Type)
	assert.Equal(t, ids[2], last.MessageID)
	assert.Equal(t, int64(1), last.UnreadCount)

	assert.True(t, errors.Is(svc.Contacts.Delete(ctx, ids[2]), ErrNotFound))
}
