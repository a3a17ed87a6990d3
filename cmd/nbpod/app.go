package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vmunix/nbpod/internal/browser"
	"github.com/vmunix/nbpod/internal/config"
	"github.com/vmunix/nbpod/internal/events"
	"github.com/vmunix/nbpod/internal/fetch"
	"github.com/vmunix/nbpod/internal/migrations"
	"github.com/vmunix/nbpod/internal/runs"
	"github.com/vmunix/nbpod/internal/workflow"
)

// app holds what a command needs once the config is loaded.
type app struct {
	cfg     *config.Config
	cfgPath string
	log     *slog.Logger
	bus     *events.Bus
	db      *sql.DB
	store   *runs.Store
	events  *events.EventLog
	printer *printer
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newApp loads the config, opens the history database when enabled and
// routes logs through the event bus to the terminal printer.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, path, err := config.Resolve(configPath)
	if err != nil {
		var cfgErr *config.ConfigError
		if errors.As(err, &cfgErr) {
			cfgErr.Report(os.Stderr)
			return nil, fmt.Errorf("configuration invalid")
		}
		return nil, fmt.Errorf("config: %w", err)
	}
	applyFlagOverrides(cmd, cfg)

	level := parseLogLevel(cfg.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}
	// The bus reports its own trouble straight to stderr; routing it back
	// through itself could loop.
	busLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	a := &app{cfg: cfg, cfgPath: path}
	if cfg.Database.Enabled {
		db, err := migrations.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		a.db = db
		a.store = runs.NewStore(db)
		a.events = events.NewEventLog(db)
	}

	a.bus = events.NewBus(a.events, busLogger)
	a.printer = newPrinter(os.Stderr, a.bus, !jsonOutput)
	a.log = slog.New(events.NewLogHandler(a.bus, level))
	if a.store != nil {
		logTransitions(a.store, a.log)
	}
	return a, nil
}

// logTransitions reports every run item status change at debug level.
func logTransitions(store *runs.Store, log *slog.Logger) {
	log = log.With("component", "runs")
	store.OnTransition(func(ev runs.TransitionEvent) {
		log.Debug("item status changed", "run", ev.RunID, "url", ev.URL, "from", ev.From, "to", ev.To)
	})
}

// Close flushes the printer and releases the database.
func (a *app) Close() {
	_ = a.bus.Close()
	a.printer.Wait()
	if a.db != nil {
		_ = a.db.Close()
	}
}

// applyFlagOverrides copies explicitly set command flags over the config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("port") != nil && flags.Changed("port") {
		cfg.Browser.Port, _ = flags.GetInt("port")
	}
	if flags.Lookup("jina-reader") != nil && flags.Changed("jina-reader") {
		cfg.Reader.Enabled, _ = flags.GetBool("jina-reader")
	}
	if flags.Lookup("no-publish") != nil && flags.Changed("no-publish") {
		noPublish, _ := flags.GetBool("no-publish")
		cfg.Publish.Enabled = !noPublish
	}
	if flags.Lookup("output") != nil && flags.Changed("output") {
		cfg.Download.OutputDir, _ = flags.GetString("output")
	}
	if flags.Lookup("workers") != nil && flags.Changed("workers") {
		cfg.Batch.Workers, _ = flags.GetInt("workers")
	}
	if flags.Lookup("timeout") != nil && flags.Changed("timeout") {
		cfg.Batch.ItemTimeout, _ = flags.GetDuration("timeout")
	}
}

// workflow builds the production workflow: real Chrome, cookie-replaying
// downloads, history in the database.
func (a *app) workflow() (*workflow.Workflow, error) {
	opts, err := workflow.FromConfig(a.cfg)
	if err != nil {
		return nil, err
	}
	fetcher := fetch.NewDownloader(a.cfg.Download.ChunkSize, a.cfg.Download.UserAgent, a.log)
	return workflow.New(opts, browser.ChromeDialer{}, fetcher, a.store, a.bus, a.log), nil
}

// connectionHint explains how to start Chrome when err is a connection
// failure.
func (a *app) connectionHint(err error) {
	if !browser.IsConnectionError(err) {
		return
	}
	a.printer.Hint(fmt.Sprintf("Please ensure Chrome is running with remote debugging enabled on port %d.", a.cfg.Browser.Port))
	a.printer.Hint("Example command to launch Chrome: " + browser.LaunchHint(a.cfg.Browser.Port))
}
