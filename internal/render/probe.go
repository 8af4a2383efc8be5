package render

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// FFprobe is the production Prober, backed by ffmpeg-go's Probe.
type FFprobe struct {
	logger *slog.Logger
}

func NewProber(logger *slog.Logger) *FFprobe {
	return &FFprobe{logger: logger}
}

func (p *FFprobe) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}
	return ParseProbe(out)
}

type probeOutput struct {
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
	} `json:"format"`
}

// ParseProbe decodes `ffprobe -show_format -show_streams -of json` output.
func ParseProbe(data string) (*ProbeResult, error) {
	var out probeOutput
	if err := json.Unmarshal([]byte(data), &out); err != nil {
		return nil, fmt.Errorf("cannot parse probe JSON: %w", err)
	}

	res := &ProbeResult{FormatName: out.Format.FormatName}
	if out.Format.Duration != "" {
		secs, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q: %w", out.Format.Duration, err)
		}
		res.Duration = time.Duration(secs * float64(time.Second))
	}

	foundVideo := false
	for _, s := range out.Streams {
		switch s.CodecType {
		case "video":
			if !foundVideo {
				foundVideo = true
				res.Width = s.Width
				res.Height = s.Height
				res.VideoCodec = s.CodecName
				res.FrameRate = s.AvgFrameRate
			}
		case "audio":
			if res.AudioCodec == "" {
				res.AudioCodec = s.CodecName
			}
		}
	}
	if !foundVideo {
		return nil, fmt.Errorf("no video stream found")
	}
	return res, nil
}
