package render_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-weeks/internal/config"
	"github.com/tartampluch/go-weeks/internal/engine"
	"github.com/tartampluch/go-weeks/internal/render"
)

var (
	birth = time.Date(1993, 6, 12, 0, 0, 0, 0, time.UTC)
	now   = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
)

func english(t *testing.T) render.Options {
	t.Helper()
	tr, err := render.NewTranslator("en")
	require.NoError(t, err)
	return render.Options{Translator: tr}
}

func sampleWeeks() []engine.Week {
	events := []engine.MilestoneEvent{
		{Date: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), Title: "Started college", Emoji: "🎓", Based: "Massachusetts"},
		{Date: time.Date(2019, 8, 1, 0, 0, 0, 0, time.UTC), Doing: "Bootcamp"},
		{Date: time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC), Title: "Planned sabbatical", Emoji: "⛵"},
	}
	return engine.GenerateWeeks(birth, events, now)
}

func TestRenderGrid_Layout(t *testing.T) {
	weeks := sampleWeeks()
	out := render.RenderGrid(weeks, english(t))

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4+config.YearsHorizon, "title, legend, two blank lines and one row per year")

	assert.Equal(t, "Life in Weeks", lines[0])
	assert.True(t, strings.HasPrefix(lines[4], "  0 (1993) "), "first row carries the age marker: %q", lines[4])
	assert.True(t, strings.HasPrefix(lines[5], strings.Repeat(" ", 11)))
	assert.True(t, strings.HasPrefix(lines[14], " 10 (2003) "))
	assert.True(t, strings.HasPrefix(lines[103], strings.Repeat(" ", 11)))

	for _, row := range lines[4:] {
		assert.Equal(t, 11+config.WeeksPerYear, len([]rune(row)))
	}

	assert.Equal(t, 1, strings.Count(out, render.GlyphCurrent))
	assert.Equal(t, 3, strings.Count(out, render.GlyphMilestone))
}

func TestRenderLegend(t *testing.T) {
	legend := render.RenderLegend(sampleWeeks(), english(t))

	for _, label := range []string{"90s", "2000s", "2010s", "2020s", "2030s", "2040s", "Future"} {
		assert.Contains(t, legend, label)
	}
	assert.NotContains(t, legend, "2050s", "only the first six decades are listed")
	assert.Empty(t, render.RenderLegend(nil, english(t)))
}

func TestRenderGrid_Empty(t *testing.T) {
	assert.Empty(t, render.RenderGrid(nil, render.Options{}))
}

func TestRenderStats(t *testing.T) {
	stats := engine.Stats{TotalWeeks: 5200, WeeksLived: 1740, WeeksRemaining: 3460, PercentageLived: 33.5, CurrentAge: 33}

	out := render.RenderStats(stats, english(t))

	assert.Equal(t, "Life in Weeks\n1,740 weeks lived\n3,460 weeks remaining\n33.5% of 100 years\nAge 33\n", out)
}

func TestRenderEvents(t *testing.T) {
	out := render.RenderEvents(sampleWeeks(), english(t))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 3)
	assert.Equal(t, "2015-01-01  🎓 Started college  Week 1,124", lines[0])
	assert.Equal(t, "2019-08-01  "+config.FallbackTitle+"  Week 1,363", lines[1])
	assert.Contains(t, lines[2], "⛵ Planned sabbatical")

	empty := render.RenderEvents(engine.GenerateWeeks(birth, nil, now), english(t))
	assert.Equal(t, "No milestones on the timeline yet.\n", empty)
}

func TestRenderWeekDetail(t *testing.T) {
	weeks := sampleWeeks()
	opts := english(t)

	college := render.RenderWeekDetail(weeks[1124], opts)
	assert.Equal(t, "🎓 Started college\nDecember 27, 2014 · Age 21\nWeek 1,124\n📍 Massachusetts\n", college)

	later := render.RenderWeekDetail(weeks[1400], opts)
	assert.NotContains(t, later, "🎓")
	assert.Contains(t, later, "📍 Massachusetts")
	assert.Contains(t, later, "💼 Bootcamp")

	first := render.RenderWeekDetail(weeks[0], opts)
	assert.Equal(t, "June 12, 1993 · Age 0\nWeek 0\n", first)
}

func TestRender_ColorDoesNotChangeContent(t *testing.T) {
	opts := english(t)
	opts.Color = true

	out := render.RenderWeekDetail(sampleWeeks()[1400], opts)
	assert.Contains(t, out, "Bootcamp")
}
