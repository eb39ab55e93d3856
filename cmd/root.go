package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/theirongolddev/blossom/internal/config"
	"github.com/theirongolddev/blossom/internal/content"
	"github.com/theirongolddev/blossom/internal/intake"
	"github.com/theirongolddev/blossom/internal/ledger"
	"github.com/theirongolddev/blossom/internal/logging"
	"github.com/theirongolddev/blossom/internal/model"
	"github.com/theirongolddev/blossom/internal/notify"
	"github.com/theirongolddev/blossom/internal/pipeline"
	"github.com/theirongolddev/blossom/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDataDir  string
	flagStorage  string
	flagQuiet    bool
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:          "blossom",
	Short:        "Orange Blossom Alliance impact tracker",
	Long:         "Record gifts, track fundraising momentum, and project the impact of a pledge.",
	RunE:         runSummary,
	SilenceUsage: true,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Ledger directory (default $XDG_DATA_HOME/blossom)")
	rootCmd.PersistentFlags().StringVar(&flagStorage, "storage", "", "Storage backend: sqlite, file or memory")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// env is what every command needs: config, a logger and the ledger.
type env struct {
	cfg    config.Config
	logger *slog.Logger
	ledger *ledger.Store

	kv        store.KV
	logCloser io.Closer
	publisher *notify.Publisher
}

func (e *env) Close() {
	if e.publisher != nil {
		_ = e.publisher.Close()
	}
	if e.kv != nil {
		_ = e.kv.Close()
	}
	if e.logCloser != nil {
		_ = e.logCloser.Close()
	}
}

// loadConfig reads .env, the config file and environment, then applies
// command-line overrides.
func loadConfig() (config.Config, error) {
	if err := config.LoadEnv(); err != nil {
		return config.Config{}, fmt.Errorf("loading .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}

	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	if flagStorage != "" {
		cfg.General.Storage = flagStorage
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagQuiet {
		cfg.Log.Level = "error"
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, w io.Writer) (*slog.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
		Writer: w,
		Prefix: "blossom",
	})
}

// openEnv is the shared setup path used by all commands that touch the
// ledger. Logs go to stderr unless a log file is configured.
func openEnv(ctx context.Context) (*env, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	e, err := openEnvWith(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	e.ledger.Load(ctx)
	return e, nil
}

// openEnvWith opens storage without reading the ledger.
func openEnvWith(cfg config.Config, logw io.Writer) (*env, error) {
	logger, closer, err := newLogger(cfg, logw)
	if err != nil {
		return nil, err
	}

	kv, err := store.Open(cfg.General.Storage, cfg.DataDir())
	if err != nil {
		_ = closer.Close()
		return nil, fmt.Errorf("opening %s storage: %w", cfg.General.Storage, err)
	}

	return &env{
		cfg:       cfg,
		logger:    logger,
		ledger:    ledger.NewStore(kv, logger),
		kv:        kv,
		logCloser: closer,
	}, nil
}

// loadContent returns the dashboard content, logging override problems.
func (e *env) loadContent() content.Content {
	c, err := content.Load(e.cfg.ContentPath())
	if err != nil {
		e.logger.Warn("unable to load content overrides, using built-ins", "err", err)
	}
	return c
}

func (e *env) defaults() (model.Frequency, model.FocusArea) {
	f, err := model.ParseFrequency(e.cfg.Intake.DefaultFrequency)
	if err != nil {
		f = model.Monthly
	}
	a, err := model.ParseFocusArea(e.cfg.Intake.DefaultFocusArea)
	if err != nil {
		a = model.CommunityNourishment
	}
	return f, a
}

// notifyObserver dials the AMQP broker when notify.amqp_url is set. A
// broker that cannot be reached is logged and skipped.
func (e *env) notifyObserver() intake.Observer {
	if e.cfg.Notify.AMQPURL == "" {
		return nil
	}
	p, err := notify.Dial(notify.Config{
		URL:        e.cfg.Notify.AMQPURL,
		Exchange:   e.cfg.Notify.Exchange,
		RoutingKey: e.cfg.Notify.RoutingKey,
	}, e.logger)
	if err != nil {
		e.logger.Warn("gift notifications disabled", "err", err)
		return nil
	}
	e.publisher = p
	return p.Observer(func() model.Metrics {
		return pipeline.Aggregate(e.ledger.Current(), time.Now())
	})
}

// newIntake returns an intake handler using the configured defaults.
func (e *env) newIntake() *intake.Handler {
	f, a := e.defaults()
	return intake.NewHandler(e.ledger,
		intake.WithLogger(e.logger),
		intake.WithDefaults(f, a, model.Today(time.Now())),
		intake.WithObserver(e.notifyObserver()),
	)
}
