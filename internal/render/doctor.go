package render

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

const defaultCacheTTL = 5 * time.Minute

// RunDoctor probes the ffmpeg build for the encoders and filters a render
// needs.
func (e *FFmpegEncoder) RunDoctor(ctx context.Context) (*Capabilities, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.DoctorTimeout)
	defer cancel()

	version := e.runner.run(ctx, true, "-hide_banner", "-version")
	if !version.IsSuccess() {
		return nil, fmt.Errorf("ffmpeg -version exited %d: %s", version.ExitCode, lastLine(version.StderrTail))
	}
	encoders := e.runner.run(ctx, true, "-hide_banner", "-encoders")
	if !encoders.IsSuccess() {
		return nil, fmt.Errorf("ffmpeg -encoders exited %d: %s", encoders.ExitCode, lastLine(encoders.StderrTail))
	}
	filters := e.runner.run(ctx, true, "-hide_banner", "-filters")
	if !filters.IsSuccess() {
		return nil, fmt.Errorf("ffmpeg -filters exited %d: %s", filters.ExitCode, lastLine(filters.StderrTail))
	}

	caps := ParseCapabilities(version.Stdout, encoders.Stdout, filters.Stdout)
	caps.ProbedAt = time.Now()

	e.cfg.Logger.Info("doctor probe complete",
		"version", caps.Version,
		"ready", caps.Ready(),
		"missing", caps.Missing(),
	)

	return caps, nil
}

// ParseCapabilities reads the output of `ffmpeg -version`, `-encoders`
// and `-filters`.
func ParseCapabilities(version, encoders, filters string) *Capabilities {
	enc := listedNames(encoders)
	flt := listedNames(filters)
	return &Capabilities{
		Version:     parseVersion(version),
		HasLibx264:  enc[VideoCodec],
		HasAAC:      enc[AudioCodec],
		HasDrawtext: flt["drawtext"],
		HasZoompan:  flt["zoompan"],
		HasOverlay:  flt["overlay"],
		HasConcat:   flt["concat"],
	}
}

func parseVersion(out string) string {
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == "ffmpeg" && fields[1] == "version" {
			return fields[2]
		}
	}
	return ""
}

// listedNames collects the second column of ffmpeg's listing tables, e.g.
// " V....D libx264   ..." or " TSC zoompan  V->V ...".
func listedNames(out string) map[string]bool {
	names := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 || strings.HasSuffix(fields[0], ":") || strings.Trim(fields[0], "-") == "" {
			continue
		}
		names[fields[1]] = true
	}
	return names
}

// CachedDoctor wraps a DoctorRunner to cache probe results with a TTL.
type CachedDoctor struct {
	runner DoctorRunner
	ttl    time.Duration
	logger *slog.Logger

	mu     sync.RWMutex
	cached *Capabilities
}

func NewCachedDoctor(runner DoctorRunner, logger *slog.Logger) *CachedDoctor {
	return &CachedDoctor{
		runner: runner,
		ttl:    defaultCacheTTL,
		logger: logger,
	}
}

// Get returns cached capabilities if fresh, otherwise re-probes.
func (d *CachedDoctor) Get(ctx context.Context) (*Capabilities, error) {
	d.mu.RLock()
	if d.cached != nil && time.Since(d.cached.ProbedAt) < d.ttl {
		caps := d.cached
		d.mu.RUnlock()
		return caps, nil
	}
	d.mu.RUnlock()

	return d.Refresh(ctx)
}

func (d *CachedDoctor) Peek() *Capabilities {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.cached
}

// Refresh forces a new probe. A failed probe returns the stale cache when
// there is one.
func (d *CachedDoctor) Refresh(ctx context.Context) (*Capabilities, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	caps, err := d.runner.RunDoctor(ctx)
	if err != nil {
		d.logger.Warn("doctor probe failed", "error", err)
		if d.cached != nil {
			d.logger.Info("returning stale capabilities cache")
			return d.cached, nil
		}
		return nil, err
	}

	d.cached = caps
	return caps, nil
}

func (d *CachedDoctor) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached = nil
}
