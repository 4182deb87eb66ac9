package render

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/tartampluch/go-weeks/internal/config"
	"github.com/tartampluch/go-weeks/internal/engine"
)

// Cell glyphs.
const (
	GlyphPast      = "■"
	GlyphCurrent   = "◆"
	GlyphFuture    = "□"
	GlyphMilestone = "★"
)

// One colour per decade of a century-long timeline.
var decadePalette = []lipgloss.Color{
	lipgloss.Color("#fb4934"),
	lipgloss.Color("#fe8019"),
	lipgloss.Color("#fabd2f"),
	lipgloss.Color("#b8bb26"),
	lipgloss.Color("#8ec07c"),
	lipgloss.Color("#83a598"),
	lipgloss.Color("#458588"),
	lipgloss.Color("#d3869b"),
	lipgloss.Color("#b16286"),
	lipgloss.Color("#d65d0e"),
	lipgloss.Color("#a89984"),
}

var (
	colorDim = lipgloss.Color("#665c54")

	styleDim     = lipgloss.NewStyle().Foreground(colorDim)
	styleCurrent = lipgloss.NewStyle().Foreground(lipgloss.Color("#ebdbb2")).Bold(true).Blink(true)
	styleHeader  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fe8019")).Bold(true)
	styleMarker  = lipgloss.NewStyle().Foreground(lipgloss.Color("#928374"))
)

// Options controls how output is rendered.
type Options struct {
	Translator *Translator
	Color      bool
}

func (o Options) tr() *Translator {
	if o.Translator != nil {
		return o.Translator
	}
	return defaultTranslator()
}

func (o Options) paint(style lipgloss.Style, s string) string {
	if !o.Color {
		return s
	}
	return style.Render(s)
}

// ColorEnabled reports whether f is an interactive terminal.
func ColorEnabled(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// decadeStyle picks the palette entry for decade, relative to the first
// decade of the timeline.
func decadeStyle(decade, first int) lipgloss.Style {
	i := (decade - first) / config.YearsPerDecade
	if i < 0 {
		i = 0
	}
	return lipgloss.NewStyle().Foreground(decadePalette[i%len(decadePalette)])
}

// cell renders one week.
func (o Options) cell(w engine.Week, first int) string {
	switch {
	case w.IsCurrent:
		return o.paint(styleCurrent, GlyphCurrent)
	case w.Event != nil && w.IsFuture:
		return o.paint(styleDim, GlyphMilestone)
	case w.Event != nil:
		return o.paint(decadeStyle(w.Decade, first), GlyphMilestone)
	case w.IsFuture:
		return o.paint(styleDim, GlyphFuture)
	default:
		return o.paint(decadeStyle(w.Decade, first), GlyphPast)
	}
}

// markerWidth fits "100 (2093)" plus a separating space.
const markerWidth = 11

// rowMarker labels every config.AgeMarkerStep-th row with the age and year.
func rowMarker(age, birthYear int) string {
	if age%config.AgeMarkerStep != 0 {
		return strings.Repeat(" ", markerWidth)
	}
	return fmt.Sprintf("%*s ", markerWidth-1, fmt.Sprintf("%d (%d)", age, birthYear+age))
}

// RenderLegend lists the first decades of the timeline and the future marker.
func RenderLegend(weeks []engine.Week, opts Options) string {
	decades := engine.Decades(weeks)
	if len(decades) == 0 {
		return ""
	}

	parts := make([]string, 0, config.LegendDecadeLimit+1)
	for i, d := range decades {
		if i >= config.LegendDecadeLimit {
			break
		}
		parts = append(parts, opts.paint(decadeStyle(d, decades[0]), GlyphPast)+" "+engine.DecadeLabel(d))
	}
	parts = append(parts, opts.paint(styleDim, GlyphFuture)+" "+opts.tr().Msg(config.TKeyLegendFuture, nil))

	return strings.Join(parts, "  ")
}

// RenderGrid draws the timeline as one row per year of age.
func RenderGrid(weeks []engine.Week, opts Options) string {
	if len(weeks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(opts.paint(styleHeader, opts.tr().Msg(config.TKeyTitle, nil)))
	b.WriteString("\n\n")
	b.WriteString(RenderLegend(weeks, opts))
	b.WriteString("\n\n")

	first := weeks[0].Decade
	birthYear := weeks[0].StartDate.Year()

	for start := 0; start < len(weeks); start += config.WeeksPerYear {
		end := min(start+config.WeeksPerYear, len(weeks))
		age := weeks[start].Age

		b.WriteString(opts.paint(styleMarker, rowMarker(age, birthYear)))
		for _, w := range weeks[start:end] {
			b.WriteString(opts.cell(w, first))
		}
		b.WriteByte('\n')
	}

	return b.String()
}
