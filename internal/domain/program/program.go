// Package program provides the Program domain entity: a recurring weekly show.
package program

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

// Program represents a recurring show in the weekly schedule.
type Program struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Host        string    `json:"host"`
	ImageURL    string    `json:"image_url"`
	Weekday     int       `gorm:"index;not null" json:"weekday"`     // 0=Sunday .. 6=Saturday
	StartTime   string    `gorm:"size:5;not null" json:"start_time"` // "HH:MM"
	EndTime     string    `gorm:"size:5;not null" json:"end_time"`   // "HH:MM", after StartTime
	IsActive    bool      `gorm:"index" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Slot is the parsed time range of a program on its weekday.
type Slot struct {
	Weekday time.Weekday
	Start   time.Duration // Offset from midnight
	End     time.Duration // Offset from midnight
}

// Overlaps reports whether two slots share any time on the same weekday.
// Adjacent slots (one ends when the other starts) do not overlap.
func (s Slot) Overlaps(other Slot) bool {
	if s.Weekday != other.Weekday {
		return false
	}
	return s.Start < other.End && other.Start < s.End
}

// Contains reports whether the given moment falls inside the slot.
func (s Slot) Contains(t time.Time) bool {
	if t.Weekday() != s.Weekday {
		return false
	}
	offset := time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute
	return offset >= s.Start && offset < s.End
}

// Slot parses the program's weekday and times.
func (p *Program) Slot() (Slot, error) {
	if p.Weekday < 0 || p.Weekday > 6 {
		return Slot{}, errors.Newf("weekday %d out of range", p.Weekday)
	}
	start, err := ParseClock(p.StartTime)
	if err != nil {
		return Slot{}, errors.Wrap(err, "invalid start time")
	}
	end, err := ParseClock(p.EndTime)
	if err != nil {
		return Slot{}, errors.Wrap(err, "invalid end time")
	}
	if start >= end {
		return Slot{}, errors.Newf("start time %s must be before end time %s", p.StartTime, p.EndTime)
	}
	return Slot{Weekday: time.Weekday(p.Weekday), Start: start, End: end}, nil
}

// OverlapsWith reports whether both programs are scheduled at the same time.
// Programs with invalid times never overlap.
func (p *Program) OverlapsWith(other *Program) bool {
	if p.ID != "" && p.ID == other.ID {
		return false
	}
	a, err := p.Slot()
	if err != nil {
		return false
	}
	b, err := other.Slot()
	if err != nil {
		return false
	}
	return a.Overlaps(b)
}

// WeekdayName returns the English weekday name.
func (p *Program) WeekdayName() string {
	return time.Weekday(p.Weekday).String()
}

// TimeRange returns the display range "HH:MM-HH:MM".
func (p *Program) TimeRange() string {
	return fmt.Sprintf("%s-%s", p.StartTime, p.EndTime)
}

// ParseClock parses "HH:MM" (24h, "24:00" allowed as end of day) into an
// offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	var h, m int
	if len(s) != 5 || s[2] != ':' {
		return 0, errors.Newf("time %q must be HH:MM", s)
	}
	if _, err := fmt.Sscanf(s, "%02d:%02d", &h, &m); err != nil {
		return 0, errors.Wrapf(err, "time %q must be HH:MM", s)
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, errors.Newf("time %q out of range", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
