package main

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/osa030/onair/internal/api/onairv1"
)

// Record kinds accepted by create, update and delete.
const (
	kindProgram = "program"
	kindPodcast = "podcast"
	kindArticle = "article"
	kindMember  = "member"
)

var kinds = []string{kindProgram, kindPodcast, kindArticle, kindMember}

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// decodeFile reads a YAML (or JSON) record file into out.
// Keys are the wire names of the fields, e.g. start_time or is_active.
func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "failed to read record file")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "failed to parse record file")
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeHookFunc(time.RFC3339),
			timeHook,
		),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return errors.Wrap(err, "invalid record file")
	}
	return nil
}

// timeHook passes YAML timestamps through unchanged.
func timeHook(from, to reflect.Type, data any) (any, error) {
	if t, ok := data.(time.Time); ok && to == reflect.TypeOf(time.Time{}) {
		return t, nil
	}
	return data, nil
}

func create(ctx context.Context, client *onairv1.AdminServiceClient, kind, path string) error {
	switch kind {
	case kindProgram:
		var p onairv1.Program
		if err := decodeFile(path, &p); err != nil {
			return err
		}
		resp, err := client.CreateProgram(ctx, &onairv1.CreateProgramRequest{Program: p})
		if err != nil {
			return err
		}
		fmt.Printf("Created program %s\n", programLine(resp.Program))
	case kindPodcast:
		var p onairv1.Podcast
		if err := decodeFile(path, &p); err != nil {
			return err
		}
		resp, err := client.CreatePodcast(ctx, &onairv1.CreatePodcastRequest{Podcast: p})
		if err != nil {
			return err
		}
		fmt.Printf("Created podcast %s\n", podcastLine(resp.Podcast))
	case kindArticle:
		var a onairv1.Article
		if err := decodeFile(path, &a); err != nil {
			return err
		}
		resp, err := client.CreateArticle(ctx, &onairv1.CreateArticleRequest{Article: a})
		if err != nil {
			return err
		}
		fmt.Printf("Created article %s\n", articleLine(resp.Article))
	case kindMember:
		var m onairv1.Member
		if err := decodeFile(path, &m); err != nil {
			return err
		}
		resp, err := client.CreateMember(ctx, &onairv1.CreateMemberRequest{Member: m})
		if err != nil {
			return err
		}
		fmt.Printf("Created member %s\n", memberLine(resp.Member))
	}
	return nil
}

func update(ctx context.Context, client *onairv1.AdminServiceClient, kind, id, path string) error {
	switch kind {
	case kindProgram:
		var p onairv1.Program
		if err := decodeFile(path, &p); err != nil {
			return err
		}
		resp, err := client.UpdateProgram(ctx, &onairv1.UpdateProgramRequest{ID: id, Program: p})
		if err != nil {
			return err
		}
		fmt.Printf("Updated program %s\n", programLine(resp.Program))
	case kindPodcast:
		var p onairv1.Podcast
		if err := decodeFile(path, &p); err != nil {
			return err
		}
		resp, err := client.UpdatePodcast(ctx, &onairv1.UpdatePodcastRequest{ID: id, Podcast: p})
		if err != nil {
			return err
		}
		fmt.Printf("Updated podcast %s\n", podcastLine(resp.Podcast))
	case kindArticle:
		var a onairv1.Article
		if err := decodeFile(path, &a); err != nil {
			return err
		}
		resp, err := client.UpdateArticle(ctx, &onairv1.UpdateArticleRequest{ID: id, Article: a})
		if err != nil {
			return err
		}
		fmt.Printf("Updated article %s\n", articleLine(resp.Article))
	case kindMember:
		var m onairv1.Member
		if err := decodeFile(path, &m); err != nil {
			return err
		}
		resp, err := client.UpdateMember(ctx, &onairv1.UpdateMemberRequest{ID: id, Member: m})
		if err != nil {
			return err
		}
		fmt.Printf("Updated member %s\n", memberLine(resp.Member))
	}
	return nil
}

func remove(ctx context.Context, client *onairv1.AdminServiceClient, kind, id string) error {
	req := &onairv1.DeleteRequest{ID: id}
	var err error
	switch kind {
	case kindProgram:
		_, err = client.DeleteProgram(ctx, req)
	case kindPodcast:
		_, err = client.DeletePodcast(ctx, req)
	case kindArticle:
		_, err = client.DeleteArticle(ctx, req)
	case kindMember:
		_, err = client.DeleteMember(ctx, req)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Deleted %s %s\n", kind, id)
	return nil
}

func listPrograms(ctx context.Context, client *onairv1.AdminServiceClient, pageReq onairv1.PageRequest) error {
	resp, err := client.ListPrograms(ctx, &onairv1.ListProgramsRequest{PageRequest: pageReq, ActiveOnly: *programsActive})
	if err != nil {
		return err
	}

	fmt.Println("\n=== PROGRAMS ===")
	for _, p := range resp.Programs {
		fmt.Printf("  %s\n", programLine(p))
	}
	printPagination(resp.Pagination)
	return nil
}

func listPodcasts(ctx context.Context, client *onairv1.AdminServiceClient, pageReq onairv1.PageRequest) error {
	resp, err := client.ListPodcasts(ctx, &onairv1.AdminListPodcastsRequest{
		PageRequest:   pageReq,
		ProgramID:     *podcastsProgram,
		PublishedOnly: *podcastsPublished,
	})
	if err != nil {
		return err
	}

	fmt.Println("\n=== PODCASTS ===")
	for _, p := range resp.Podcasts {
		fmt.Printf("  %s\n", podcastLine(p))
	}
	printPagination(resp.Pagination)
	return nil
}

func listNews(ctx context.Context, client *onairv1.AdminServiceClient, pageReq onairv1.PageRequest) error {
	resp, err := client.ListNews(ctx, &onairv1.AdminListNewsRequest{PageRequest: pageReq, PublishedOnly: *newsPublished})
	if err != nil {
		return err
	}

	fmt.Println("\n=== NEWS ===")
	for _, a := range resp.Articles {
		fmt.Printf("  %s\n", articleLine(a))
	}
	printPagination(resp.Pagination)
	return nil
}

func listTeam(ctx context.Context, client *onairv1.AdminServiceClient) error {
	resp, err := client.ListTeam(ctx, &onairv1.AdminListTeamRequest{ActiveOnly: *teamActive})
	if err != nil {
		return err
	}

	fmt.Println("\n=== TEAM ===")
	for _, m := range resp.Members {
		fmt.Printf("  %s\n", memberLine(m))
	}
	fmt.Println()
	return nil
}

func programLine(p onairv1.Program) string {
	day := "?"
	if p.Weekday >= 0 && p.Weekday < len(weekdays) {
		day = weekdays[p.Weekday]
	}
	return fmt.Sprintf("%s  %s %s-%s  %s%s", p.ID, day, p.StartTime, p.EndTime, p.Title, flag(!p.IsActive, " [inactive]"))
}

func podcastLine(p onairv1.Podcast) string {
	var parts []string
	if p.SeasonNumber > 0 {
		parts = append(parts, fmt.Sprintf("S%d", p.SeasonNumber))
	}
	if p.EpisodeNumber > 0 {
		parts = append(parts, fmt.Sprintf("E%d", p.EpisodeNumber))
	}
	if p.DurationLabel != "" {
		parts = append(parts, p.DurationLabel)
	}
	return fmt.Sprintf("%s  %s (%s)%s", p.ID, p.Title, strings.Join(parts, " "), flag(!p.IsPublished, " [draft]"))
}

func articleLine(a onairv1.Article) string {
	published := "draft"
	if a.IsPublished && a.PublishedAt != nil {
		published = a.PublishedAt.Local().Format("2006-01-02")
	}
	return fmt.Sprintf("%s  %s  /%s  (%s)", a.ID, a.Title, a.Slug, published)
}

func memberLine(m onairv1.Member) string {
	return fmt.Sprintf("%s  %d. %s, %s%s", m.ID, m.SortOrder, m.Name, m.Role, flag(!m.IsActive, " [inactive]"))
}

func printMessage(m onairv1.ContactMessage) {
	fmt.Printf("\n  [%s] %s  %s\n", m.Status, m.ID, m.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("  From: %s <%s>", m.Name, m.Email)
	if m.Phone != "" {
		fmt.Printf(" %s", m.Phone)
	}
	fmt.Println()
	if m.Subject != "" {
		fmt.Printf("  Subject: %s\n", m.Subject)
	}
	for _, line := range strings.Split(m.Body, "\n") {
		fmt.Printf("    %s\n", line)
	}
}

func printPagination(p onairv1.Pagination) {
	fmt.Printf("\nPage %d/%d (%d total)\n\n", p.Page, p.TotalPages, p.Total)
}

func flag(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}
