package api

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ruziwatakundanashe/reelgen/internal/history"
	"github.com/ruziwatakundanashe/reelgen/internal/reel"
	"github.com/ruziwatakundanashe/reelgen/internal/render"
	"github.com/ruziwatakundanashe/reelgen/internal/studio"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State        string                `json:"state"`
	ActiveMode   string                `json:"active_mode,omitempty"`
	StartedAt    string                `json:"started_at,omitempty"`
	LastRenderID string                `json:"last_render_id,omitempty"`
	LastError    string                `json:"last_error,omitempty"`
	FFmpeg       *FFmpegStatusResponse `json:"ffmpeg,omitempty"`
}

type FFmpegStatusResponse struct {
	Version     string   `json:"version"`
	Ready       bool     `json:"ready"`
	Missing     []string `json:"missing,omitempty"`
	HasLibx264  bool     `json:"has_libx264"`
	HasAAC      bool     `json:"has_aac"`
	HasDrawtext bool     `json:"has_drawtext"`
	HasZoompan  bool     `json:"has_zoompan"`
	LastProbeAt string   `json:"last_probe_at,omitempty"`
}

type TemplateResponse struct {
	reel.ModeSpec
	PreviewURL  string `json:"preview_url"`
	DownloadURL string `json:"download_url"`
}

type TemplatesResponse struct {
	Templates []TemplateResponse `json:"templates"`
}

type GenerateResponse struct {
	RenderID     string  `json:"render_id"`
	Mode         string  `json:"mode"`
	Message      string  `json:"message"`
	OutputPath   string  `json:"output_path"`
	PreviewURL   string  `json:"preview_url"`
	DownloadURL  string  `json:"download_url"`
	DownloadName string  `json:"download_name"`
	ClipCount    int     `json:"clip_count"`
	DurationS    float64 `json:"duration_s"`
	SizeBytes    int64   `json:"size_bytes"`
	SizeHuman    string  `json:"size_human"`
}

type RenderResponse struct {
	ID              string `json:"id"`
	Mode            string `json:"mode"`
	Status          string `json:"status"`
	Error           string `json:"error,omitempty"`
	OutputPath      string `json:"output_path"`
	ClipCount       int    `json:"clip_count"`
	TimelineMS      int64  `json:"timeline_ms"`
	ElapsedMS       int64  `json:"elapsed_ms"`
	SizeBytes       int64  `json:"size_bytes"`
	ProbeWidth      int    `json:"probe_width,omitempty"`
	ProbeHeight     int    `json:"probe_height,omitempty"`
	ProbeDurationMS int64  `json:"probe_duration_ms,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type RendersResponse struct {
	Renders []RenderResponse `json:"renders"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func previewURL(m reel.Mode) string {
	return "/reels/" + string(m) + "/video"
}

func downloadURL(m reel.Mode) string {
	return "/reels/" + string(m) + "/download"
}

func StateToResponse(s studio.State) StatusResponse {
	resp := StatusResponse{
		State:        "idle",
		LastRenderID: s.LastRenderID,
		LastError:    s.LastError,
	}
	if s.Running {
		resp.State = "running"
		resp.ActiveMode = string(s.ActiveMode)
		resp.StartedAt = s.StartedAt.Format(time.RFC3339)
	}
	return resp
}

func CapabilitiesToResponse(c *render.Capabilities) *FFmpegStatusResponse {
	resp := &FFmpegStatusResponse{
		Version:     c.Version,
		Ready:       c.Ready(),
		Missing:     c.Missing(),
		HasLibx264:  c.HasLibx264,
		HasAAC:      c.HasAAC,
		HasDrawtext: c.HasDrawtext,
		HasZoompan:  c.HasZoompan,
	}
	if !c.ProbedAt.IsZero() {
		resp.LastProbeAt = c.ProbedAt.Format(time.RFC3339)
	}
	return resp
}

func OutcomeToResponse(o *studio.Outcome) GenerateResponse {
	mode := o.Spec.Mode
	return GenerateResponse{
		RenderID:     o.RenderID,
		Mode:         string(mode),
		Message:      o.Message(),
		OutputPath:   o.OutputPath,
		PreviewURL:   previewURL(mode),
		DownloadURL:  downloadURL(mode),
		DownloadName: o.Spec.DownloadName,
		ClipCount:    o.ClipCount,
		DurationS:    o.Duration.Seconds(),
		SizeBytes:    o.SizeBytes,
		SizeHuman:    humanize.Bytes(uint64(o.SizeBytes)),
	}
}

func RenderToResponse(r *history.Render) RenderResponse {
	return RenderResponse{
		ID:              r.ID,
		Mode:            r.Mode,
		Status:          r.Status,
		Error:           r.Error,
		OutputPath:      r.OutputPath,
		ClipCount:       r.ClipCount,
		TimelineMS:      r.TimelineMS,
		ElapsedMS:       r.ElapsedMS,
		SizeBytes:       r.SizeBytes,
		ProbeWidth:      r.ProbeWidth,
		ProbeHeight:     r.ProbeHeight,
		ProbeDurationMS: r.ProbeDurationMS,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       r.UpdatedAt.Format(time.RFC3339),
	}
}
