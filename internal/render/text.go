package render

import (
	"strings"

	"github.com/tartampluch/go-weeks/internal/config"
	"github.com/tartampluch/go-weeks/internal/engine"
)

// Detail line prefixes.
const (
	IconBased = "📍"
	IconDoing = "💼"
)

// RenderStats prints the summary block, one figure per line.
func RenderStats(stats engine.Stats, opts Options) string {
	t := opts.tr()
	lines := []string{
		opts.paint(styleHeader, t.Msg(config.TKeyTitle, nil)),
		t.Msg(config.TKeyWeeksLived, map[string]any{"Count": t.Number(stats.WeeksLived)}),
		t.Msg(config.TKeyWeeksRemaining, map[string]any{"Count": t.Number(stats.WeeksRemaining)}),
		t.Msg(config.TKeyPercentLived, map[string]any{"Percent": t.Percent(stats.PercentageLived)}),
		t.Msg(config.TKeyCurrentAge, map[string]any{"Age": stats.CurrentAge}),
	}
	return strings.Join(lines, "\n") + "\n"
}

// headline joins the emoji and the title of an event.
func headline(e *engine.MilestoneEvent) string {
	title := e.Title
	if title == "" {
		title = config.FallbackTitle
	}
	return strings.TrimSpace(e.Emoji + " " + title)
}

// RenderEvents lists every week that carries a milestone, in timeline order.
func RenderEvents(weeks []engine.Week, opts Options) string {
	t := opts.tr()

	var b strings.Builder
	for _, w := range weeks {
		if w.Event == nil {
			continue
		}
		b.WriteString(opts.paint(styleMarker, w.Event.Date.Format(config.DateFormatKey)))
		b.WriteString("  ")
		b.WriteString(headline(w.Event))
		b.WriteString("  ")
		b.WriteString(opts.paint(styleDim, t.Msg(config.TKeyWeekIndex, map[string]any{"Index": t.Number(w.Index)})))
		b.WriteByte('\n')
	}

	if b.Len() == 0 {
		return t.Msg(config.TKeyNoEvents, nil) + "\n"
	}
	return b.String()
}

// RenderWeekDetail describes one week: the milestone if any, the date and
// age, and the sticky location and activity.
func RenderWeekDetail(w engine.Week, opts Options) string {
	t := opts.tr()

	var lines []string
	if w.Event != nil {
		lines = append(lines, opts.paint(styleHeader, headline(w.Event)))
	}
	lines = append(lines,
		t.Msg(config.TKeyWeekDate, map[string]any{"Date": t.Date(w.StartDate), "Age": w.Age}),
		opts.paint(styleDim, t.Msg(config.TKeyWeekIndex, map[string]any{"Index": t.Number(w.Index)})),
	)
	if w.CurrentBased != "" {
		lines = append(lines, IconBased+" "+w.CurrentBased)
	}
	if w.CurrentDoing != "" {
		lines = append(lines, IconDoing+" "+w.CurrentDoing)
	}

	return strings.Join(lines, "\n") + "\n"
}
