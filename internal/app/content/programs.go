package content

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/onair/internal/domain/program"
	"github.com/osa030/onair/internal/infra/store"
)

// ProgramInput holds the editable fields of a program.
type ProgramInput struct {
	Title       string `validate:"required,max=200"`
	Description string `validate:"max=5000"`
	Host        string `validate:"max=200"`
	ImageURL    string
	Weekday     int    `validate:"gte=0,lte=6"`
	StartTime   string `validate:"required,len=5"`
	EndTime     string `validate:"required,len=5"`
	IsActive    bool
}

// ProgramListOptions filters a program listing.
type ProgramListOptions struct {
	PageOptions
	ActiveOnly bool
}

// ScheduleDay holds the active programs of one weekday, ordered by start time.
type ScheduleDay struct {
	Weekday  time.Weekday
	Programs []program.Program
}

// ProgramService manages programs and the weekly schedule.
type ProgramService struct {
	repo *store.Repository[program.Program]
	now  func() time.Time
}

// NewProgramService creates a new program service.
func NewProgramService(repo *store.Repository[program.Program], now func() time.Time) *ProgramService {
	return &ProgramService{repo: repo, now: now}
}

// List returns a page of programs ordered by weekday and start time.
func (s *ProgramService) List(ctx context.Context, opts ProgramListOptions) (store.Page[program.Program], error) {
	q := opts.query("weekday asc, start_time asc")
	if opts.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	page, err := s.repo.List(ctx, q)
	if err != nil {
		return page, translate(err, "programs", "")
	}
	return page, nil
}

// Schedule returns the active programs grouped by weekday. With a weekday only
// that day is returned; otherwise all seven days starting with Sunday.
func (s *ProgramService) Schedule(ctx context.Context, weekday *int) ([]ScheduleDay, error) {
	q := store.Query{Order: "start_time asc"}.Where("is_active = ?", true)
	if weekday != nil {
		if *weekday < 0 || *weekday > 6 {
			return nil, invalidf("weekday %d out of range", *weekday)
		}
		q = q.Where("weekday = ?", *weekday)
	}

	programs, err := s.repo.All(ctx, q)
	if err != nil {
		return nil, translate(err, "programs", "")
	}

	byDay := make(map[int][]program.Program)
	for _, p := range programs {
		byDay[p.Weekday] = append(byDay[p.Weekday], p)
	}

	var days []ScheduleDay
	for d := 0; d < 7; d++ {
		if weekday != nil && d != *weekday {
			continue
		}
		list := byDay[d]
		sort.SliceStable(list, func(i, j int) bool { return list[i].StartTime < list[j].StartTime })
		days = append(days, ScheduleDay{Weekday: time.Weekday(d), Programs: list})
	}
	return days, nil
}

// OnAir returns the active program scheduled right now, if any.
func (s *ProgramService) OnAir(ctx context.Context) (*program.Program, error) {
	at := s.now()
	q := store.Query{}.Where("is_active = ? AND weekday = ?", true, int(at.Weekday()))
	programs, err := s.repo.All(ctx, q)
	if err != nil {
		return nil, translate(err, "programs", "")
	}
	for i := range programs {
		slot, err := programs[i].Slot()
		if err != nil {
			continue
		}
		if slot.Contains(at) {
			return &programs[i], nil
		}
	}
	return nil, nil
}

// Get returns a program by ID.
func (s *ProgramService) Get(ctx context.Context, id string) (*program.Program, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, translate(err, "program", id)
	}
	return p, nil
}

// Create creates a program.
func (s *ProgramService) Create(ctx context.Context, in ProgramInput) (*program.Program, error) {
	p := &program.Program{ID: uuid.NewString()}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, translate(err, "program", p.ID)
	}
	zlog.Info().Msgf("program created: id=%s title=%s slot=%s %s", p.ID, p.Title, p.WeekdayName(), p.TimeRange())
	return p, nil
}

// Update replaces the editable fields of a program.
func (s *ProgramService) Update(ctx context.Context, id string, in ProgramInput) (*program.Program, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, p, in); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, translate(err, "program", id)
	}
	zlog.Info().Msgf("program updated: id=%s", id)
	return p, nil
}

// Delete deletes a program.
func (s *ProgramService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "program", id)
	}
	zlog.Info().Msgf("program deleted: id=%s", id)
	return nil
}

// Count returns the number of programs.
func (s *ProgramService) Count(ctx context.Context, activeOnly bool) (int64, error) {
	q := store.Query{}
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return s.repo.Count(ctx, q)
}

func (s *ProgramService) apply(ctx context.Context, p *program.Program, in ProgramInput) error {
	if err := validateInput(in); err != nil {
		return err
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Host = in.Host
	p.ImageURL = in.ImageURL
	p.Weekday = in.Weekday
	p.StartTime = in.StartTime
	p.EndTime = in.EndTime
	p.IsActive = in.IsActive

	if _, err := p.Slot(); err != nil {
		return errors.Mark(err, ErrInvalidInput)
	}
	if p.IsActive {
		return s.checkOverlap(ctx, p)
	}
	return nil
}

// checkOverlap rejects an active program sharing time with another active one.
func (s *ProgramService) checkOverlap(ctx context.Context, p *program.Program) error {
	q := store.Query{}.Where("is_active = ? AND weekday = ? AND id <> ?", true, p.Weekday, p.ID)
	others, err := s.repo.All(ctx, q)
	if err != nil {
		return translate(err, "programs", "")
	}
	for i := range others {
		if p.OverlapsWith(&others[i]) {
			return errors.Mark(
				errors.Newf("program overlaps %q (%s %s)", others[i].Title, others[i].WeekdayName(), others[i].TimeRange()),
				ErrConflict,
			)
		}
	}
	return nil
}
