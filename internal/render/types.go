package render

import (
	"context"
	"time"

	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

//go:generate mockgen -destination=mocks/mock_render.go -package=mocks . Encoder,Prober

// Encoder renders a timeline into a video file.
type Encoder interface {
	// Encode blocks until the output file is written or ffmpeg fails.
	Encode(ctx context.Context, tl reel.Timeline, outputPath string) (EncodeResult, error)
}

// Prober reads stream metadata back from a rendered file.
type Prober interface {
	Probe(ctx context.Context, path string) (*ProbeResult, error)
}

// DoctorRunner probes the installed ffmpeg.
type DoctorRunner interface {
	RunDoctor(ctx context.Context) (*Capabilities, error)
}

type EncodeResult struct {
	OutputPath string
	ClipCount  int
	Timeline   time.Duration
	Elapsed    time.Duration
	SizeBytes  int64
}

type ProbeResult struct {
	Duration   time.Duration `json:"duration"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	VideoCodec string        `json:"video_codec"`
	AudioCodec string        `json:"audio_codec,omitempty"`
	FrameRate  string        `json:"frame_rate"`
	FormatName string        `json:"format_name"`
}

// Capabilities describes what the local ffmpeg build can do.
type Capabilities struct {
	Version     string    `json:"version"`
	HasLibx264  bool      `json:"has_libx264"`
	HasAAC      bool      `json:"has_aac"`
	HasDrawtext bool      `json:"has_drawtext"`
	HasZoompan  bool      `json:"has_zoompan"`
	HasOverlay  bool      `json:"has_overlay"`
	HasConcat   bool      `json:"has_concat"`
	ProbedAt    time.Time `json:"probed_at"`
}

// Ready reports whether every encoder and filter a render uses is present.
func (c *Capabilities) Ready() bool {
	return c.HasLibx264 && c.HasAAC && c.HasDrawtext && c.HasZoompan && c.HasOverlay && c.HasConcat
}

// Missing lists the absent encoders and filters.
func (c *Capabilities) Missing() []string {
	var missing []string
	for _, f := range []struct {
		name string
		ok   bool
	}{
		{VideoCodec, c.HasLibx264},
		{AudioCodec, c.HasAAC},
		{"drawtext", c.HasDrawtext},
		{"zoompan", c.HasZoompan},
		{"overlay", c.HasOverlay},
		{"concat", c.HasConcat},
	} {
		if !f.ok {
			missing = append(missing, f.name)
		}
	}
	return missing
}
