package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/tartampluch/go-weeks/internal/config"
)

// Week is one 7-day cell of the timeline, counted from the birth date.
type Week struct {
	Index     int       `json:"index"`
	StartDate time.Time `json:"startDate"`
	Decade    int       `json:"decade"`
	Age       int       `json:"age"`

	IsPast    bool `json:"isPast"`
	IsCurrent bool `json:"isCurrent"`
	IsFuture  bool `json:"isFuture"`

	Event *MilestoneEvent `json:"event,omitempty"`

	// CurrentBased and CurrentDoing are the latest values set by any event at
	// or before this week.
	CurrentBased string `json:"currentBased,omitempty"`
	CurrentDoing string `json:"currentDoing,omitempty"`
}

// EndDate returns the exclusive end of the week.
func (w Week) EndDate() time.Time {
	return w.StartDate.AddDate(0, 0, config.DaysPerWeek)
}

// sticky is the fold accumulator carried across weeks.
type sticky struct {
	based string
	doing string
}

func (s sticky) apply(e *MilestoneEvent) sticky {
	if e == nil {
		return s
	}
	if e.Based != "" {
		s.based = e.Based
	}
	if e.Doing != "" {
		s.doing = e.Doing
	}
	return s
}

// WeekStart returns the start of week index i. Weeks are exact 7-day
// multiples from birth, never aligned to the calendar.
func WeekStart(birth time.Time, i int) time.Time {
	return birth.AddDate(0, 0, i*config.DaysPerWeek)
}

// WeekIndexOf returns the number of whole weeks between birth and t,
// truncated toward zero. Negative when t precedes birth.
func WeekIndexOf(birth, t time.Time) int {
	return civilDays(birth, t) / config.DaysPerWeek
}

// civilDays counts calendar days from a to b using their Y/M/D fields, so
// DST shifts in non-UTC locations never produce a 23-hour "day".
func civilDays(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

// Decade returns the decade bucket containing t (1995 → 1990).
func Decade(t time.Time) int {
	return t.Year() / config.YearsPerDecade * config.YearsPerDecade
}

// DecadeLabel renders a decade for legends: "90s" before 2000, "2020s" after.
func DecadeLabel(decade int) string {
	if decade < config.DecadeCentury {
		return fmt.Sprintf(config.FormatDecade, decade-config.CenturyBase)
	}
	return fmt.Sprintf(config.FormatDecade, decade)
}

// Decades returns the distinct decades present in weeks, ascending.
func Decades(weeks []Week) []int {
	seen := make(map[int]bool)
	var out []int
	for _, w := range weeks {
		if !seen[w.Decade] {
			seen[w.Decade] = true
			out = append(out, w.Decade)
		}
	}
	sort.Ints(out)
	return out
}

// BuildWeekIndex maps week indexes to events. Events before birth or past
// the horizon are dropped. events must be sorted ascending; when two dates
// fall in the same week, the later one is kept.
func BuildWeekIndex(birth time.Time, events []MilestoneEvent) map[int]MilestoneEvent {
	index := make(map[int]MilestoneEvent, len(events))
	for _, e := range events {
		i := WeekIndexOf(birth, e.Date)
		if e.Date.Before(birth) || i >= config.TotalWeeks {
			slog.Debug(config.MsgEventDropped,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyDate, e.Date.Format(config.DateFormatKey))
			continue
		}
		index[i] = e
	}
	return index
}

// startOfCalendarWeek returns the Sunday 00:00 opening t's calendar week.
func startOfCalendarWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// GenerateWeeks produces the full timeline of config.TotalWeeks records.
//
// now is evaluated in the birth date's location. A week is current when its
// start falls inside the Sunday-start calendar week containing now; the
// remaining weeks are past or future depending on their start. Exactly one
// flag holds per week.
func GenerateWeeks(birth time.Time, events []MilestoneEvent, now time.Time) []Week {
	index := BuildWeekIndex(birth, events)

	now = now.In(birth.Location())
	calStart := startOfCalendarWeek(now)
	calEnd := calStart.AddDate(0, 0, config.DaysPerWeek)

	weeks := make([]Week, config.TotalWeeks)
	var acc sticky

	for i := range weeks {
		start := WeekStart(birth, i)

		var event *MilestoneEvent
		if e, ok := index[i]; ok {
			event = &e
		}
		acc = acc.apply(event)

		current := !start.Before(calStart) && start.Before(calEnd)

		weeks[i] = Week{
			Index:        i,
			StartDate:    start,
			Decade:       Decade(start),
			Age:          i / config.WeeksPerYear,
			IsCurrent:    current,
			IsPast:       !current && start.Before(now),
			IsFuture:     !current && !start.Before(now),
			Event:        event,
			CurrentBased: acc.based,
			CurrentDoing: acc.doing,
		}
	}

	return weeks
}

// WeekAt returns the week with the given index.
func WeekAt(weeks []Week, i int) (Week, error) {
	if i < 0 || i >= len(weeks) {
		return Week{}, fmt.Errorf("%s: %d", config.ErrWeekIndex, i)
	}
	return weeks[i], nil
}
