package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ruziwatakundanashe/reelgen/internal/api"
	"github.com/ruziwatakundanashe/reelgen/internal/config"
	"github.com/ruziwatakundanashe/reelgen/internal/logging"
	"github.com/ruziwatakundanashe/reelgen/internal/playback"
	"github.com/ruziwatakundanashe/reelgen/internal/ui"
)

func runServe() error {
	startTime := time.Now()

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, closeLogs, err := logging.New(logging.Options{
		Level:     cfg.LogLevel(),
		File:      cfg.LogFile(),
		SentryDSN: cfg.SentryDSN(),
		Release:   config.Version,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer closeLogs()

	logger.Info("starting reelgen",
		"version", config.Version,
		"data_dir", logging.SanitizePath(cfg.DataDir()),
		"output_dir", logging.SanitizePath(cfg.OutputDir()),
	)

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	initCtx, initCancel := context.WithTimeout(context.Background(), config.DoctorTimeout)
	defer initCancel()
	if caps, err := a.doctor.Refresh(initCtx); err != nil {
		logger.Warn("initial ffmpeg probe failed", "error", err)
	} else if !caps.Ready() {
		logger.Warn("ffmpeg is missing features renders need", "version", caps.Version, "missing", caps.Missing())
	} else {
		logger.Info("ffmpeg capabilities detected", "version", caps.Version)
	}

	apiServer := api.NewServer(api.ServerConfig{
		Host:           cfg.Host(),
		Port:           cfg.Port(),
		Studio:         a.studio,
		Presenter:      playback.NewPresenter(logger),
		Renders:        a.renders,
		Doctor:         a.doctor,
		Limiter:        api.NewClientLimiter(cfg.RateLimitPerMinute(), time.Minute, cfg.RateLimitBurst()),
		MaxUploadBytes: cfg.MaxUploadBytes(),
		Logger:         logger,
		StartTime:      startTime,
		Version:        config.Version,
	})

	fmt.Println(banner(bannerInfo{
		Version:   config.Version,
		URL:       apiServer.URL(),
		OutputDir: cfg.OutputDir(),
		FFmpeg:    a.doctor.Peek(),
	}))

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	quitCh := make(chan struct{})
	var quitOnce sync.Once
	quit := func() { quitOnce.Do(func() { close(quitCh) }) }

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			quit()
		case <-quitCh:
		}
	}()

	if cfg.Headless() {
		logger.Info("running in headless mode (no system tray)")
	} else {
		tray := ui.NewTray(ui.TrayConfig{
			Studio: a.studio,
			URL:    apiServer.URL(),
			Logger: logger,
			OnQuit: quit,
		})
		go tray.Run()
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
