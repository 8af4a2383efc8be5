// Package history is the render ledger: one record per pipeline run that
// got past input collection.
package history

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

type Render struct {
	ID              string    `json:"id"`
	Mode            string    `json:"mode"`
	Status          string    `json:"status"`
	Error           string    `json:"error,omitempty"`
	OutputPath      string    `json:"output_path"`
	ClipCount       int       `json:"clip_count"`
	TimelineMS      int64     `json:"timeline_ms"`
	ElapsedMS       int64     `json:"elapsed_ms"`
	SizeBytes       int64     `json:"size_bytes"`
	ProbeWidth      int       `json:"probe_width,omitempty"`
	ProbeHeight     int       `json:"probe_height,omitempty"`
	ProbeDurationMS int64     `json:"probe_duration_ms,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Completion carries the measurements of a successful render.
type Completion struct {
	ClipCount       int
	TimelineMS      int64
	ElapsedMS       int64
	SizeBytes       int64
	ProbeWidth      int
	ProbeHeight     int
	ProbeDurationMS int64
}

// NewRender returns a running record with a fresh ID.
func NewRender(mode, outputPath string) *Render {
	now := time.Now().UTC()
	return &Render{
		ID:         NewID(),
		Mode:       mode,
		Status:     StatusRunning,
		OutputPath: outputPath,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func NewID() string {
	return uuid.NewString()
}
