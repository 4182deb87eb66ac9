package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-weeks/internal/config"
	"github.com/tartampluch/go-weeks/internal/engine"
	"github.com/tartampluch/go-weeks/internal/server"
	"github.com/zalando/go-keyring"
)

// WeeksApp keeps the served snapshot fresh. The classification of weeks
// moves with the wall clock, so the pipeline is rerun periodically even
// when the milestones do not change.
type WeeksApp struct {
	Ctx      context.Context
	Settings config.Settings

	Server  *server.WeeksServer
	Fetcher engine.SourceFetcher
	Clock   engine.Clock // Injected clock for testability

	refreshChan chan struct{}

	snapshotMut sync.RWMutex
	snapshot    *engine.Snapshot
}

// NewWeeksApp wires the application with the real clock.
func NewWeeksApp(ctx context.Context, settings config.Settings, srv *server.WeeksServer, fetcher engine.SourceFetcher) *WeeksApp {
	return &WeeksApp{
		Ctx:         ctx,
		Settings:    settings,
		Server:      srv,
		Fetcher:     fetcher,
		Clock:       engine.RealClock{},
		refreshChan: make(chan struct{}, config.ChannelBufferSize),
	}
}

// Run serves the feed and refreshes it until the context is cancelled or
// the server fails.
func (app *WeeksApp) Run() error {
	ctx, cancel := context.WithCancel(app.Ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.backgroundWorker(ctx)
	}()

	err := app.Server.Start(ctx)
	if err != nil {
		slog.Error(config.ErrServerStartup,
			config.LogKeyComponent, config.CompApp,
			config.LogKeyPort, app.Server.Port,
			config.LogKeyError, err,
		)
	}

	cancel()
	wg.Wait()

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompApp)
	return err
}

// Refresh asks the worker for an immediate run. Requests made while one is
// already pending are coalesced.
func (app *WeeksApp) Refresh() {
	select {
	case app.refreshChan <- struct{}{}:
	default:
	}
}

// Snapshot returns the last successful generation, or nil before the first.
func (app *WeeksApp) Snapshot() *engine.Snapshot {
	app.snapshotMut.RLock()
	defer app.snapshotMut.RUnlock()
	return app.snapshot
}

func (app *WeeksApp) interval() time.Duration {
	if app.Settings.RefreshInterval <= 0 {
		return config.DefaultRefreshMin * time.Minute
	}
	return app.Settings.RefreshInterval
}

// backgroundWorker runs the pipeline at start, then on every tick or
// manual refresh.
func (app *WeeksApp) backgroundWorker(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	_ = app.performSync(ctx, false)

	ticker := time.NewTicker(app.interval())
	defer ticker.Stop()

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, app.interval())

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-app.refreshChan:
			_ = app.performSync(ctx, true)

		case <-ticker.C:
			_ = app.performSync(ctx, false)
		}
	}
}

// performSync runs one generation and publishes it. On failure the previous
// snapshot stays in place.
func (app *WeeksApp) performSync(ctx context.Context, manual bool) error {
	log := slog.With(config.LogKeyComponent, config.CompWorker)
	log.Info(config.MsgSyncReq, config.LogKeyManual, manual)

	gen := &engine.Generator{
		Clock:     app.Clock,
		Fetcher:   app.Fetcher,
		BirthDate: app.Settings.BirthDate,
	}

	snap, err := gen.Run(ctx, app.loadSourceConfig())
	if err == nil {
		err = app.Server.Update(snap)
	}
	if err != nil {
		log.Error(config.MsgSyncFailed, config.LogKeyError, err)
		if app.Snapshot() != nil {
			log.Warn(config.MsgKeepingLastRun)
		}
		return err
	}

	app.snapshotMut.Lock()
	app.snapshot = snap
	app.snapshotMut.Unlock()
	return nil
}

// loadSourceConfig resolves the pipeline configuration for the current settings.
func (app *WeeksApp) loadSourceConfig() engine.SourceConfig {
	return SourceConfig(app.Settings)
}

// SourceConfig maps settings to a pipeline configuration. The web password
// is read from the OS keyring for the configured user.
func SourceConfig(s config.Settings) engine.SourceConfig {
	cfg := engine.SourceConfig{
		Mode:        s.SourceMode(),
		LocalPath:   s.MilestonesPath,
		WebURL:      s.SourceURL,
		WebUser:     s.SourceUser,
		ProfilePath: s.ProfilePath,
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyComponent, config.CompApp,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
			)
		}
	}

	return cfg
}
