package render

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ruziwatakundanashe/reelgen/internal/logging"
	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

// Config holds the encoder's configuration.
type Config struct {
	FFmpegPath    string // path to ffmpeg; empty = look up on PATH
	ScratchDir    string // drawtext text files
	FontFile      string // optional drawtext font
	DoctorTimeout time.Duration
	Logger        *slog.Logger
}

// FFmpegEncoder is the production Encoder. It compiles timelines with
// ffmpeg-go and runs the resulting command itself.
type FFmpegEncoder struct {
	cfg      Config
	compiler *Compiler
	runner   *runner
}

// NewEncoder resolves the ffmpeg binary and builds an encoder.
func NewEncoder(cfg Config) (*FFmpegEncoder, error) {
	bin, err := resolveBinary(cfg.FFmpegPath, "ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("cannot locate ffmpeg: %w", err)
	}
	if cfg.DoctorTimeout == 0 {
		cfg.DoctorTimeout = 30 * time.Second
	}

	cfg.Logger.Info("ffmpeg encoder initialised",
		"ffmpeg", bin,
		"scratch_dir", logging.SanitizePath(cfg.ScratchDir),
		"font_file", cfg.FontFile,
	)

	return &FFmpegEncoder{
		cfg:      cfg,
		compiler: NewCompiler(cfg.ScratchDir, cfg.FontFile),
		runner:   &runner{bin: bin, logger: cfg.Logger},
	}, nil
}

// Encode renders tl to outputPath. The output is overwritten.
func (e *FFmpegEncoder) Encode(ctx context.Context, tl reel.Timeline, outputPath string) (EncodeResult, error) {
	plan, err := e.compiler.Compile(tl, outputPath)
	if err != nil {
		return EncodeResult{}, err
	}

	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return EncodeResult{}, fmt.Errorf("cannot create output dir: %w", err)
		}
	}

	e.cfg.Logger.Info("encoding timeline",
		"mode", tl.Mode,
		"clips", plan.ClipCount,
		"timeline_s", plan.Duration.Seconds(),
		"output", logging.SanitizePath(outputPath),
	)

	result := e.runner.run(ctx, false, plan.Args...)
	if !result.IsSuccess() {
		return EncodeResult{}, fmt.Errorf("ffmpeg exited %d: %s", result.ExitCode, lastLine(result.StderrTail))
	}

	stat, err := os.Stat(outputPath)
	if err != nil {
		return EncodeResult{}, fmt.Errorf("cannot stat output: %w", err)
	}

	e.cfg.Logger.Info("timeline encoded",
		"mode", tl.Mode,
		"duration_ms", result.Duration.Milliseconds(),
		"size", humanize.Bytes(uint64(stat.Size())),
	)

	return EncodeResult{
		OutputPath: outputPath,
		ClipCount:  plan.ClipCount,
		Timeline:   plan.Duration,
		Elapsed:    result.Duration,
		SizeBytes:  stat.Size(),
	}, nil
}

// lastLine returns the last non-empty line of ffmpeg's stderr, which is
// where it reports the fatal error.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return "no output"
}
