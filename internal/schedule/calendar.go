// Package schedule implements the production-schedule core: deadline
// arithmetic, status resolution, readiness over the prerequisite graph, and
// the confirmation state machine. Everything in this package is a pure
// function of its inputs — no I/O, no clocks. Callers pass "today" in.
package schedule

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthOffset selects which production month a deadline rule counts from,
// relative to the publish date.
type MonthOffset string

const (
	// PrevProduction is two months before the publish month.
	PrevProduction MonthOffset = "prev_production"
	// CurrProduction is one month before the publish month.
	CurrProduction MonthOffset = "curr_production"
)

// MonthDay is a calendar day without a year, the unit planned dates are
// stored in. The zero value means "no planned date".
type MonthDay struct {
	Month int
	Day   int
}

// IsZero reports whether md carries no date.
func (md MonthDay) IsZero() bool { return md.Month == 0 }

func (md MonthDay) String() string {
	return fmt.Sprintf("%d/%d", md.Month, md.Day)
}

// MarshalJSON encodes the day as "M/D".
func (md MonthDay) MarshalJSON() ([]byte, error) {
	return json.Marshal(md.String())
}

// UnmarshalJSON decodes a "M/D" string.
func (md *MonthDay) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseMonthDay(s)
	if err != nil {
		return err
	}
	*md = parsed
	return nil
}

// ParseMonthDay parses a "M/D" string such as "10/30".
func ParseMonthDay(s string) (MonthDay, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return MonthDay{}, fmt.Errorf("schedule: bad month/day %q", s)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthDay{}, fmt.Errorf("schedule: bad month in %q", s)
	}
	d, err := strconv.Atoi(parts[1])
	if err != nil {
		return MonthDay{}, fmt.Errorf("schedule: bad day in %q", s)
	}
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return MonthDay{}, fmt.Errorf("schedule: month/day out of range %q", s)
	}
	return MonthDay{Month: m, Day: d}, nil
}

// IssueLabel derives the edition label for a publish date, e.g. "2025年12月号".
func IssueLabel(publish time.Time) string {
	return fmt.Sprintf("%d年%d月号", publish.Year(), int(publish.Month()))
}

// IssueFolder derives the archive folder name for a publish date, e.g. "2025_12".
func IssueFolder(publish time.Time) string {
	return fmt.Sprintf("%d_%02d", publish.Year(), int(publish.Month()))
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PlannedDate computes a planned month/day by counting back from the publish
// date: two months for PrevProduction, one for CurrProduction, with year
// rollover. A rule day that overflows the target month (day 30 in February)
// is clamped to the month's last day.
func PlannedDate(publish time.Time, offset MonthOffset, day int) MonthDay {
	back := 2
	if offset == CurrProduction {
		back = 1
	}
	target := time.Date(publish.Year(), publish.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -back, 0)
	if last := daysIn(target.Year(), target.Month()); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return MonthDay{Month: int(target.Month()), Day: day}
}

// PlannedTime resolves a planned month/day to a concrete date relative to the
// issue's publish month. Planned months are always one or two months before
// the publish month, so a planned month later than the publish month belongs
// to the previous calendar year.
func PlannedTime(publishYear int, publishMonth time.Month, md MonthDay) time.Time {
	year := publishYear
	if time.Month(md.Month) > publishMonth {
		year--
	}
	return time.Date(year, time.Month(md.Month), md.Day, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns b minus a in whole calendar days, ignoring time of day.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad) / (24 * time.Hour))
}
