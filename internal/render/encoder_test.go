package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

// newTestEncoder returns an encoder backed by the local ffmpeg, skipping
// the test when ffmpeg, ffprobe or a filter a render needs is missing.
func newTestEncoder(t *testing.T) *FFmpegEncoder {
	t.Helper()
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not on PATH: %v", bin, err)
		}
	}

	enc, err := NewEncoder(Config{
		ScratchDir: t.TempDir(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("NewEncoder() error = %v", err)
	}
	caps, err := enc.RunDoctor(context.Background())
	if err != nil {
		t.Skipf("ffmpeg doctor failed: %v", err)
	}
	if !caps.Ready() {
		t.Skipf("ffmpeg is missing %v", caps.Missing())
	}
	return enc
}

func writePNG(t *testing.T, dir, name string, w, h int, c color.Color) reel.Asset {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return reel.ImageAsset(path, w, h)
}

// cornerLuma returns the brightest luma value in the top-left 8x8 block of
// the frame at 1s.
func cornerLuma(t *testing.T, path string) byte {
	t.Helper()
	cmd := exec.Command("ffmpeg", "-v", "error", "-ss", "1", "-i", path,
		"-frames:v", "1", "-vf", "crop=8:8:0:0", "-f", "rawvideo", "-pix_fmt", "gray", "pipe:1")
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("frame extract failed: %v", err)
	}
	if len(out) != 64 {
		t.Fatalf("frame extract returned %d bytes, want 64", len(out))
	}
	var peak byte
	for _, b := range out {
		peak = max(peak, b)
	}
	return peak
}

func TestEncode_RendersEachTemplate(t *testing.T) {
	enc := newTestEncoder(t)
	prober := NewProber(enc.cfg.Logger)
	in := t.TempDir()

	slideshow, err := reel.Slideshow([]reel.Asset{
		writePNG(t, in, "tall.png", 540, 960, color.RGBA{200, 40, 40, 255}),
		writePNG(t, in, "wide.png", 320, 180, color.RGBA{40, 200, 40, 255}),
		writePNG(t, in, "tall.png", 540, 960, color.RGBA{200, 40, 40, 255}),
	}, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	quote, err := reel.Quote("Give it 100% today", nil, 2*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	animation, err := reel.Animation("one\n\n50% off\nC:\\three", time.Second)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		tl   reel.Timeline
		want time.Duration
	}{
		{"slideshow", slideshow, 3 * time.Second},
		{"quote", quote, 2 * time.Second},
		{"animation", animation, 3 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "output_"+tt.name+".mp4")
			res, err := enc.Encode(context.Background(), tt.tl, out)
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			if res.SizeBytes == 0 {
				t.Error("output is empty")
			}

			probe, err := prober.Probe(context.Background(), out)
			if err != nil {
				t.Fatalf("Probe() error = %v", err)
			}
			if probe.Width != reel.FrameWidth || probe.Height != reel.FrameHeight {
				t.Errorf("size = %dx%d, want %dx%d", probe.Width, probe.Height, reel.FrameWidth, reel.FrameHeight)
			}
			if probe.VideoCodec != "h264" {
				t.Errorf("video codec = %q, want h264", probe.VideoCodec)
			}
			if diff := (probe.Duration - tt.want).Abs(); diff > 250*time.Millisecond {
				t.Errorf("duration = %s, want %s", probe.Duration, tt.want)
			}
		})
	}

	t.Run("quote canvas is black", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "output_quote.mp4")
		if _, err := enc.Encode(context.Background(), quote, out); err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if luma := cornerLuma(t, out); luma > 32 {
			t.Errorf("corner luma = %d, want black", luma)
		}
	})
}
