package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-weeks/internal/config"
)

// BuildCalendar encodes the milestones that sit on the timeline as all-day
// iCalendar events. Events outside the timeline are skipped, mirroring the
// grid. An empty result still yields a valid VCALENDAR.
func BuildCalendar(profile Profile, events []MilestoneEvent, now time.Time) ([]byte, error) {
	index := BuildWeekIndex(profile.BirthDate, events)
	if len(index) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	// Walk the sorted input rather than the map so the output is stable.
	for _, e := range events {
		indexed, ok := index[WeekIndexOf(profile.BirthDate, e.Date)]
		if !ok || !indexed.Date.Equal(e.Date) {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, eventUID(e))
		event.Props.SetText(config.PropSummary, eventSummary(e))
		event.Props.SetText(config.PropCategories, config.CategoryMilestone)

		if e.Based != "" {
			event.Props.SetText(config.PropLocation, e.Based)
		}
		if e.Doing != "" {
			event.Props.SetText(config.PropDescription, e.Doing)
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(e.Date)
		event.Props.Set(dtStartProp)
		event.Props.Set(dtStampProp)

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// eventUID is deterministic so calendar clients keep their state across refreshes.
func eventUID(e MilestoneEvent) string {
	input := fmt.Sprintf(config.FormatHashInput, e.Date.Format(config.DateFormatKey), e.Title, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), config.ICalDomain)
}

func eventSummary(e MilestoneEvent) string {
	title := e.Title
	if title == "" {
		title = config.FallbackTitle
	}
	return strings.TrimSpace(e.Emoji + " " + title)
}
