package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/tartampluch/go-weeks/internal/config"
	"gopkg.in/yaml.v3"
)

// MilestoneEvent is a dated life event after same-date fragments were merged.
type MilestoneEvent struct {
	Date  time.Time `json:"date"`
	Title string    `json:"title"`
	Emoji string    `json:"emoji"`

	// Based and Doing are sticky: they apply to every following week until a
	// later event sets them again. Empty means "not set by this event".
	Based string `json:"based,omitempty"`
	Doing string `json:"doing,omitempty"`
}

// Fragment is one raw entry listed under a date key in the milestones file.
type Fragment struct {
	Title string `yaml:"title"`
	Emoji string `yaml:"emoji"`
	Based string `yaml:"based"`
	Doing string `yaml:"doing"`
}

// merge applies a fragment on top of the event. Later non-empty values win.
func (e *MilestoneEvent) merge(f Fragment) {
	if f.Title != "" {
		e.Title = f.Title
	}
	if f.Emoji != "" {
		e.Emoji = f.Emoji
	}
	if f.Based != "" {
		e.Based = f.Based
	}
	if f.Doing != "" {
		e.Doing = f.Doing
	}
}

// LoadMilestones reads and parses the milestones file at path.
func LoadMilestones(path string, loc *time.Location) ([]MilestoneEvent, error) {
	if path == "" {
		return nil, errors.New(config.ErrLocalPathEmpty)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrMilestonesRead, err)
	}
	defer func() { _ = f.Close() }()

	return ParseMilestones(f, loc)
}

// ParseMilestones decodes a YAML mapping of "YYYY-MM-DD" keys to fragment
// lists. Dates are interpreted as midnight in loc (UTC when nil).
// Any malformed key or fragment fails the whole parse.
func ParseMilestones(r io.Reader, loc *time.Location) ([]MilestoneEvent, error) {
	if loc == nil {
		loc = time.UTC
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrMilestonesRead, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New(config.ErrMilestonesEmpty)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrMilestonesRead, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, errors.New(config.ErrMilestonesEmpty)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%s (line %d)", config.ErrMilestonesShape, root.Line)
	}

	// Duplicate keys are legal in loose YAML files; they fold into the same event.
	byDate := make(map[time.Time]*MilestoneEvent)
	var order []time.Time

	for i := 0; i+1 < len(root.Content); i += 2 {
		keyNode, valNode := root.Content[i], root.Content[i+1]

		date, err := time.ParseInLocation(config.DateFormatKey, keyNode.Value, loc)
		if err != nil {
			return nil, fmt.Errorf("%s %q (line %d): %w", config.ErrMilestoneDate, keyNode.Value, keyNode.Line, err)
		}

		var fragments []Fragment
		if valNode.Kind != yaml.SequenceNode {
			return nil, fmt.Errorf("%s for %s (line %d)", config.ErrMilestoneItems, keyNode.Value, valNode.Line)
		}
		if err := valNode.Decode(&fragments); err != nil {
			return nil, fmt.Errorf("%s for %s: %w", config.ErrMilestoneItems, keyNode.Value, err)
		}

		event, ok := byDate[date]
		if !ok {
			event = &MilestoneEvent{Date: date}
			byDate[date] = event
			order = append(order, date)
		}
		for _, f := range fragments {
			event.merge(f)
		}
	}

	events := make([]MilestoneEvent, 0, len(order))
	for _, d := range order {
		events = append(events, *byDate[d])
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	slog.Debug(config.MsgEventsLoaded,
		config.LogKeyComponent, config.CompLoader,
		config.LogKeyCount, len(events))

	return events, nil
}
