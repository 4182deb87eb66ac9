package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tartampluch/go-weeks/internal/app"
	"github.com/tartampluch/go-weeks/internal/config"
	"github.com/tartampluch/go-weeks/internal/engine"
	"github.com/tartampluch/go-weeks/internal/render"
	"github.com/tartampluch/go-weeks/internal/server"
)

// cli carries the state shared by every command.
type cli struct {
	settings config.Settings

	debug      bool
	noColor    bool
	milestones string
	profile    string
	lang       string
	port       string
	out        string

	console   io.Writer
	logToFile bool
	clock     engine.Clock
	closer    io.Closer
}

func (c *cli) close() {
	if c.closer != nil {
		_ = c.closer.Close()
	}
}

// newRootCmd builds the command tree.
func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:               config.CommandName,
		Short:             config.CmdShortRoot,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.prepare,
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&c.debug, config.FlagDebug, false, config.FlagDescDebug)
	flags.BoolVar(&c.noColor, config.FlagNoColor, false, config.FlagDescNoColor)
	flags.StringVar(&c.milestones, config.FlagMilestones, "", config.FlagDescMilestones)
	flags.StringVar(&c.profile, config.FlagProfile, "", config.FlagDescProfile)
	flags.StringVar(&c.lang, config.FlagLang, "", config.FlagDescLang)

	root.AddCommand(
		c.gridCmd(),
		c.statsCmd(),
		c.eventsCmd(),
		c.weekCmd(),
		c.icsCmd(),
		c.serveCmd(),
		c.versionCmd(),
	)
	return root
}

// prepare resolves settings from the environment, applies flag overrides
// and configures logging.
func (c *cli) prepare(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if cmd.Name() == config.CmdServe {
		level = slog.LevelInfo
	}
	c.closer = setupLogging(level, c.debug, c.console, c.logToFile)
	logStartupInfo()

	settings, err := config.LoadSettings(os.Getenv)
	if err != nil {
		return err
	}

	if c.milestones != "" {
		settings.MilestonesPath = c.milestones
	}
	if c.profile != "" {
		settings.ProfilePath = c.profile
	}
	if c.lang != "" {
		settings.Language = c.lang
	}
	c.settings = settings
	return nil
}

// snapshot runs the pipeline once.
func (c *cli) snapshot(ctx context.Context) (*engine.Snapshot, error) {
	gen := &engine.Generator{
		Clock:     c.clock,
		Fetcher:   engine.NewHTTPFetcher(),
		BirthDate: c.settings.BirthDate,
	}
	return gen.Run(ctx, app.SourceConfig(c.settings))
}

// options selects the label language and colour for w.
func (c *cli) options(w io.Writer) (render.Options, error) {
	tr, err := render.NewTranslator(c.settings.Language)
	if err != nil {
		return render.Options{}, err
	}

	color := false
	if f, ok := w.(*os.File); ok && !c.noColor {
		color = render.ColorEnabled(f)
	}
	return render.Options{Translator: tr, Color: color}, nil
}

// printer returns a RunE that renders the snapshot with fn.
func (c *cli) printer(fn func(*engine.Snapshot, render.Options) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		snap, err := c.snapshot(cmd.Context())
		if err != nil {
			return err
		}
		opts, err := c.options(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		out, err := fn(snap, opts)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
}

func (c *cli) gridCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdGrid,
		Short: config.CmdShortGrid,
		Args:  cobra.NoArgs,
		RunE: c.printer(func(snap *engine.Snapshot, opts render.Options) (string, error) {
			return render.RenderGrid(snap.Weeks, opts), nil
		}),
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdStats,
		Short: config.CmdShortStats,
		Args:  cobra.NoArgs,
		RunE: c.printer(func(snap *engine.Snapshot, opts render.Options) (string, error) {
			return render.RenderStats(snap.Stats, opts), nil
		}),
	}
}

func (c *cli) eventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdEvents,
		Short: config.CmdShortEvents,
		Args:  cobra.NoArgs,
		RunE: c.printer(func(snap *engine.Snapshot, opts render.Options) (string, error) {
			return render.RenderEvents(snap.Weeks, opts), nil
		}),
	}
}

// weekCmd shows one week; without an index it shows the current week.
func (c *cli) weekCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdWeek + " [index]",
		Short: config.CmdShortWeek,
		Args:  cobra.MaximumNArgs(1),
	}
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		index := -1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("%s: %q", config.ErrWeekIndex, args[0])
			}
			index = n
		}

		return c.printer(func(snap *engine.Snapshot, opts render.Options) (string, error) {
			i := index
			if len(args) == 0 {
				i = currentIndex(snap.Weeks)
			}
			week, err := engine.WeekAt(snap.Weeks, i)
			if err != nil {
				return "", err
			}
			return render.RenderWeekDetail(week, opts), nil
		})(cmd, args)
	}
	return cmd
}

// currentIndex returns the index of the current week, or -1 when now lies
// outside the timeline.
func currentIndex(weeks []engine.Week) int {
	for _, w := range weeks {
		if w.IsCurrent {
			return w.Index
		}
	}
	return -1
}

func (c *cli) icsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdICS,
		Short: config.CmdShortICS,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := c.snapshot(cmd.Context())
			if err != nil {
				return err
			}

			if c.out == "" {
				_, err = cmd.OutOrStdout().Write(snap.Calendar)
				return err
			}

			if err := os.WriteFile(c.out, snap.Calendar, config.FilePermPublic); err != nil {
				return fmt.Errorf("%s: %w", config.ErrWriteFile, err)
			}
			slog.Info(config.MsgCalendarWrote,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyFile, c.out,
				config.LogKeySizeBytes, len(snap.Calendar),
			)
			return nil
		},
	}
	cmd.Flags().StringVarP(&c.out, config.FlagOut, "o", "", config.FlagDescOut)
	return cmd
}

// serveCmd runs the HTTP feed with the background refresher. SIGHUP forces
// an immediate refresh.
func (c *cli) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   config.CmdServe,
		Short: config.CmdShortServe,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			port := c.settings.Port
			if c.port != "" {
				port = c.port
			}
			if err := config.ValidatePort(port); err != nil {
				return err
			}

			ctx := cmd.Context()
			weeksApp := app.NewWeeksApp(ctx, c.settings, server.NewWeeksServer(port), engine.NewHTTPFetcher())
			weeksApp.Clock = c.clock

			hup := make(chan os.Signal, config.ChannelBufferSize)
			signal.Notify(hup, syscall.SIGHUP)
			defer signal.Stop(hup)

			go func() {
				for {
					select {
					case <-hup:
						weeksApp.Refresh()
					case <-ctx.Done():
						return
					}
				}
			}()

			slog.Info(config.MsgAppStarting,
				config.LogKeyComponent, config.CompMain,
				config.LogKeyPort, port,
				config.LogKeyMode, c.settings.SourceMode(),
			)

			if err := weeksApp.Run(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&c.port, config.FlagPort, "p", "", config.FlagDescPort)
	return cmd
}

func (c *cli) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdVersion,
		Short: config.CmdShortVersion,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}
