package app

import (
	"context"
	"fmt"

	"github.com/five82/farefinder/internal/config"
	"github.com/five82/farefinder/internal/flights"
	"github.com/five82/farefinder/internal/prefs"
	"github.com/five82/farefinder/internal/state"
	"github.com/five82/farefinder/internal/ui"
)

// Options configure the farefinder application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/farefinder/prefs.toml
	Start      string // optional start location, e.g. "/search?..."
}

// Run boots the farefinder TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	start, err := ui.ParseLocation(opts.Start)
	if err != nil {
		return fmt.Errorf("start location: %w", err)
	}

	logger, closeLog, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer closeLog()

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, err := prefs.Load(prefsPath)
	if err != nil {
		logger.Warn("load prefs failed", "path", prefsPath, "error", err)
	}

	store := newCache(ctx, cfg.Cache, logger)

	client, err := flights.NewClient(cfg.APIBase, flights.Options{
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		Cache:             store,
		Logger:            logger.With("component", "flights"),
	})
	if err != nil {
		_ = store.Close()
		return fmt.Errorf("init flights client: %w", err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("close flights client", "error", err)
		}
	}()

	logger.Info("farefinder starting",
		"api", client.BaseURL(),
		"start", start.String(),
		"page_size", cfg.PageSize,
	)

	err = ui.Run(ui.Options{
		Context:      ctx,
		Client:       client,
		Store:        &state.Store{},
		Logger:       logger.With("component", "ui"),
		Prefs:        userPrefs,
		PrefsPath:    prefsPath,
		PageSize:     cfg.PageSize,
		FetchTimeout: cfg.RequestTimeout,
		LogPath:      cfg.LogFile,
		Start:        start,
	})
	if err != nil {
		logger.Error("ui exited", "error", err)
		return err
	}
	logger.Info("farefinder stopped")
	return nil
}

