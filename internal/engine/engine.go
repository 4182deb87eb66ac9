package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/tartampluch/go-weeks/internal/config"
)

// SourceConfig contains all parameters required to build a snapshot.
type SourceConfig struct {
	Mode        string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath   string // Path to the milestones YAML file
	WebURL      string // Remote milestones URL
	WebUser     string // HTTP Basic Auth Username
	WebPass     string // HTTP Basic Auth Password
	ProfilePath string // Optional vCard overriding the birth date
}

// Snapshot is the outcome of one generation run.
type Snapshot struct {
	Profile     Profile          `json:"profile"`
	Events      []MilestoneEvent `json:"events"`
	Weeks       []Week           `json:"weeks"`
	Stats       Stats            `json:"stats"`
	Calendar    []byte           `json:"-"`
	GeneratedAt time.Time        `json:"generatedAt"`
}

// Generator is the core service turning milestone sources into timelines.
type Generator struct {
	Clock     Clock         // Interface for time mocking.
	Fetcher   SourceFetcher // Interface for network abstraction.
	BirthDate time.Time     // Used when no profile vCard is configured.
}

// NewGenerator wires a Generator with the real clock and HTTP fetcher.
func NewGenerator(birth time.Time) *Generator {
	return &Generator{
		Clock:     RealClock{},
		Fetcher:   NewHTTPFetcher(),
		BirthDate: birth,
	}
}

// Weeks generates the timeline for events using the generator's clock.
func (g *Generator) Weeks(events []MilestoneEvent) []Week {
	return GenerateWeeks(g.birthDate(), events, g.Clock.Now())
}

func (g *Generator) birthDate() time.Time {
	if g.BirthDate.IsZero() {
		return config.DefaultBirthDate()
	}
	return g.BirthDate
}

// Run executes the acquire, parse and generate pipeline. Configuration
// errors abort the run; there is no partial snapshot.
func (g *Generator) Run(ctx context.Context, cfg SourceConfig) (*Snapshot, error) {
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	profile := DefaultProfile(g.birthDate())
	if cfg.ProfilePath != "" {
		p, err := LoadProfile(cfg.ProfilePath)
		if err != nil {
			return nil, err
		}
		profile = p
	}

	reader, err := g.acquireStream(ctx, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrMilestonesRead, err)
	}
	defer func() { _ = reader.Close() }()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events, err := ParseMilestones(reader, profile.BirthDate.Location())
	if err != nil {
		return nil, err
	}

	// Captured once so every week is classified against the same instant.
	now := g.Clock.Now()
	weeks := GenerateWeeks(profile.BirthDate, events, now)

	stats, err := ComputeStats(weeks, now)
	if err != nil {
		return nil, err
	}

	ics, err := BuildCalendar(profile, events, now)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Profile:     profile,
		Events:      events,
		Weeks:       weeks,
		Stats:       stats,
		Calendar:    ics,
		GeneratedAt: now,
	}

	g.logSuccess(snap)
	log.Debug("Generation finished", config.LogKeyDuration, time.Since(start).Milliseconds())
	return snap, nil
}

// acquireStream opens the appropriate milestones source based on configuration.
func (g *Generator) acquireStream(ctx context.Context, cfg SourceConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
	}
}

// logSuccess logs the final statistics of the generation process.
func (g *Generator) logSuccess(snap *Snapshot) {
	indexed := 0
	for _, w := range snap.Weeks {
		if w.Event != nil {
			indexed++
		}
	}

	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyName, snap.Profile.Name,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyWeeks, len(snap.Weeks)),
			slog.Int(config.LogKeyLived, snap.Stats.WeeksLived),
			slog.Int(config.LogKeyCount, len(snap.Events)),
			slog.Int(config.LogKeyIndexed, indexed),
		),
	)
}
