package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuusuario/wm-trace-snapshots/internal/config"
	"github.com/tuusuario/wm-trace-snapshots/internal/core"
	"github.com/tuusuario/wm-trace-snapshots/internal/db"
	"github.com/tuusuario/wm-trace-snapshots/internal/logging"
	"github.com/tuusuario/wm-trace-snapshots/internal/platform"
	"github.com/tuusuario/wm-trace-snapshots/internal/sanitize"
	"github.com/tuusuario/wm-trace-snapshots/internal/trace"
)

var (
	configPath    string
	collectorName string
)

var rootCmd = &cobra.Command{
	Use:   "wmtrace",
	Short: "Capture and diff window manager state traces",
	Long: `wmtrace snapshots the window hierarchy of a running graphical shell
into immutable traces and structurally compares them, for automated UI
correctness checks.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(),
		"path to the config file")
	rootCmd.PersistentFlags().StringVar(&collectorName, "collector", "",
		"capture backend: auto, x11, windows, mock (overrides config)")
}

// app bundles the wired pipeline for one command invocation.
type app struct {
	cfg       config.Config
	log       *logging.Logger
	database  *db.DB
	collector core.Collector
	manager   *trace.Manager
}

func (a *app) close() {
	if a.collector != nil {
		a.collector.Close()
	}
	if a.database != nil {
		a.database.Close()
	}
	if a.log != nil {
		a.log.Sync()
	}
}

// setup wires config -> logger -> store -> collector -> manager, the
// same chain for every subcommand.
func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if collectorName != "" {
		cfg.Collector = collectorName
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel})
	if err != nil {
		return nil, err
	}

	database, err := db.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize trace store: %w", err)
	}

	collector, err := platform.New(cfg.Collector)
	if err != nil {
		database.Close()
		return nil, err
	}

	manager, err := trace.NewManager(db.NewRepository(database), collector, log)
	if err != nil {
		collector.Close()
		database.Close()
		return nil, err
	}

	if len(cfg.SensitiveWords) > 0 {
		opts := sanitize.DefaultOptions()
		opts.SensitiveWords = append(opts.SensitiveWords, cfg.SensitiveWords...)
		s, err := sanitize.NewSanitizer(opts)
		if err != nil {
			collector.Close()
			database.Close()
			return nil, err
		}
		manager.SetSanitizer(s)
	}

	return &app{
		cfg:       cfg,
		log:       log,
		database:  database,
		collector: collector,
		manager:   manager,
	}, nil
}
