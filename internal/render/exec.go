package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

const (
	maxStderrBytes = 8 * 1024 // 8 KB tail of stderr kept for diagnostics
)

// RunResult captures the outcome of one ffmpeg subprocess.
type RunResult struct {
	ExitCode   int
	StderrTail string
	Stdout     string
	Duration   time.Duration
}

func (r RunResult) IsSuccess() bool {
	return r.ExitCode == 0
}

// runner executes a binary with bounded output capture.
type runner struct {
	bin    string
	logger *slog.Logger
}

// run is the core subprocess execution helper. Stdout is kept only when
// keepStdout is set, bounded to maxStdout bytes.
func (r *runner) run(ctx context.Context, keepStdout bool, args ...string) RunResult {
	start := time.Now()

	cmd := exec.CommandContext(ctx, r.bin, args...)

	var stderrBuf, stdoutBuf bytes.Buffer
	cmd.Stderr = io.Writer(&limitedWriter{w: &stderrBuf, limit: maxStderrBytes})
	if keepStdout {
		cmd.Stdout = &headWriter{w: &stdoutBuf, limit: maxStdoutBytes}
	} else {
		cmd.Stdout = io.Discard
	}

	r.logger.Debug("executing ffmpeg command", "bin", r.bin, "args", args)

	err := cmd.Run()
	elapsed := time.Since(start)

	exitCode := 0
	stderrTail := stderrBuf.String()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
			if stderrTail == "" {
				stderrTail = err.Error()
			}
		}
	}

	if exitCode != 0 {
		r.logger.Warn("ffmpeg command failed",
			"exit_code", exitCode,
			"duration_ms", elapsed.Milliseconds(),
			"stderr_tail", truncate(stderrTail, 512),
		)
	}

	return RunResult{
		ExitCode:   exitCode,
		StderrTail: stderrTail,
		Stdout:     stdoutBuf.String(),
		Duration:   elapsed,
	}
}

// resolveBinary finds ffmpeg, either as configured or on PATH.
func resolveBinary(preferred, fallback string) (string, error) {
	name := preferred
	if name == "" {
		name = fallback
	}
	p, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found: %w", name, err)
	}
	return p, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return "..." + s[len(s)-maxLen:]
}

// limitedWriter is an io.Writer that keeps only the last `limit` bytes.
type limitedWriter struct {
	w     *bytes.Buffer
	limit int
}

func (lw *limitedWriter) Write(p []byte) (int, error) {
	n := len(p)
	lw.w.Write(p)
	if lw.w.Len() > lw.limit {
		b := lw.w.Bytes()
		tail := make([]byte, lw.limit)
		copy(tail, b[len(b)-lw.limit:])
		lw.w.Reset()
		lw.w.Write(tail)
	}
	return n, nil
}

const maxStdoutBytes = 256 * 1024

// headWriter keeps only the first `limit` bytes.
type headWriter struct {
	w     *bytes.Buffer
	limit int
}

func (hw *headWriter) Write(p []byte) (int, error) {
	n := len(p)
	if room := hw.limit - hw.w.Len(); room > 0 {
		if len(p) > room {
			p = p[:room]
		}
		hw.w.Write(p)
	}
	return n, nil
}
