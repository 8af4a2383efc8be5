package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ruziwatakundanashe/reelgen/internal/config"
	"github.com/ruziwatakundanashe/reelgen/internal/db"
	"github.com/ruziwatakundanashe/reelgen/internal/history"
	"github.com/ruziwatakundanashe/reelgen/internal/intake"
	"github.com/ruziwatakundanashe/reelgen/internal/logging"
	"github.com/ruziwatakundanashe/reelgen/internal/render"
	"github.com/ruziwatakundanashe/reelgen/internal/studio"
)

// app is the wiring shared by serve and render.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	database *db.DB
	renders  *history.SQLiteRepository
	encoder  *render.FFmpegEncoder
	doctor   *render.CachedDoctor
	studio   *studio.Service
}

func newApp(cfg config.Config, logger *slog.Logger) (*app, error) {
	for _, dir := range []string{cfg.DataDir(), cfg.ScratchDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	encoder, err := render.NewEncoder(render.Config{
		FFmpegPath:    cfg.FFmpegPath(),
		ScratchDir:    cfg.ScratchDir(),
		FontFile:      cfg.FontFile(),
		DoctorTimeout: config.DoctorTimeout,
		Logger:        logger,
	})
	if err != nil {
		database.Close()
		return nil, err
	}

	renders := history.NewRepository(database.Conn())
	svc, err := studio.NewService(
		studio.Config{OutputDir: cfg.OutputDir(), RenderTimeout: cfg.RenderTimeout()},
		intake.NewStager(cfg.UploadDir(), logger),
		encoder,
		render.NewProber(logger),
		renders,
		logger,
	)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		database: database,
		renders:  renders,
		encoder:  encoder,
		doctor:   render.NewCachedDoctor(encoder, logger),
		studio:   svc,
	}, nil
}

func (a *app) Close() {
	if err := a.database.Close(); err != nil {
		a.logger.Warn("failed to close database", "error", err)
	}
}

// cliLogger logs to stderr so stdout stays clean for command output.
func cliLogger(cfg config.Config) (*slog.Logger, func(), error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Options{
		Level:     level,
		Output:    os.Stderr,
		File:      cfg.LogFile(),
		SentryDSN: cfg.SentryDSN(),
		Release:   config.Version,
	})
}
