// Package studio runs the reel pipeline: collect inputs, build the
// timeline, encode it to the template's fixed output path and record the
// run in the ledger.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ruziwatakundanashe/reelgen/internal/history"
	"github.com/ruziwatakundanashe/reelgen/internal/intake"
	"github.com/ruziwatakundanashe/reelgen/internal/logging"
	"github.com/ruziwatakundanashe/reelgen/internal/reel"
	"github.com/ruziwatakundanashe/reelgen/internal/render"
)

//go:generate mockgen -destination=mocks/mock_studio.go -package=mocks . Studio

// Studio is the pipeline surface used by the HTTP layer, the CLI and the
// tray.
type Studio interface {
	Generate(ctx context.Context, sub intake.Submission) (*Outcome, error)
	State() State
	OutputPath(mode reel.Mode) string
}

type Config struct {
	OutputDir string
	// RenderTimeout bounds one render; zero means no timeout.
	RenderTimeout time.Duration
}

// State is the idle/running machine shared by all templates.
type State struct {
	Running      bool      `json:"running"`
	ActiveMode   reel.Mode `json:"active_mode,omitempty"`
	StartedAt    time.Time `json:"started_at,omitempty"`
	LastRenderID string    `json:"last_render_id,omitempty"`
	LastError    string    `json:"last_error,omitempty"`
}

// Label is a short human status line.
func (s State) Label() string {
	if s.Running {
		return "Rendering " + string(s.ActiveMode)
	}
	return "Idle"
}

// Outcome describes a finished render.
type Outcome struct {
	RenderID   string
	Spec       reel.ModeSpec
	OutputPath string
	ClipCount  int
	Duration   time.Duration
	SizeBytes  int64
	Elapsed    time.Duration
	Probe      *render.ProbeResult
}

func (o *Outcome) Message() string {
	return o.Spec.SuccessText
}

type Service struct {
	cfg     Config
	stager  *intake.Stager
	encoder render.Encoder
	prober  render.Prober
	repo    history.Repository
	logger  *slog.Logger

	// renderMu serializes renders; the output paths are shared.
	renderMu sync.Mutex

	stateMu sync.RWMutex
	state   State
}

// NewService wires the pipeline. prober and repo may be nil.
func NewService(cfg Config, stager *intake.Stager, encoder render.Encoder, prober render.Prober, repo history.Repository, logger *slog.Logger) (*Service, error) {
	if err := PrepareOutputDir(cfg.OutputDir); err != nil {
		return nil, err
	}
	if encoder == nil {
		return nil, errors.New("studio: encoder is required")
	}
	return &Service{
		cfg:     cfg,
		stager:  stager,
		encoder: encoder,
		prober:  prober,
		repo:    repo,
		logger:  logging.WithComponent(logger, "studio"),
	}, nil
}

func (s *Service) OutputPath(mode reel.Mode) string {
	return OutputPath(s.cfg.OutputDir, mode)
}

func (s *Service) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// Generate runs one template. A submission missing required input returns
// (nil, nil) and touches nothing. Any later failure is a *RenderFault.
// The render is not cancelled when ctx is.
func (s *Service) Generate(ctx context.Context, sub intake.Submission) (*Outcome, error) {
	if !sub.Ready() {
		s.logger.Debug("submission incomplete, nothing to render", "mode", sub.Spec.Mode)
		return nil, nil
	}

	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	ctx = context.WithoutCancel(ctx)
	if s.cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RenderTimeout)
		defer cancel()
	}

	mode := sub.Spec.Mode
	outPath := s.OutputPath(mode)
	rec := history.NewRender(string(mode), outPath)
	logger := logging.WithMode(logging.WithRenderID(s.logger, rec.ID), string(mode))

	s.setState(State{Running: true, ActiveMode: mode, StartedAt: time.Now(), LastRenderID: rec.ID})
	logger.Info("render started", "output", logging.SanitizePath(outPath), "duration_s", sub.DurationSeconds)

	if s.repo != nil {
		if err := s.repo.CreateRender(ctx, rec); err != nil {
			logger.Warn("failed to record render", "error", err)
		}
	}

	outcome, err := s.runRecovered(ctx, logger, sub, outPath)
	if err != nil {
		var rf *RenderFault
		if !errors.As(err, &rf) {
			rf = fault(StageEncode, err)
		}
		logger.Error("render failed", "stage", rf.Stage, "error", rf.Err)
		s.recordFailure(ctx, logger, rec.ID, rf)
		s.setState(State{LastRenderID: rec.ID, LastError: rf.Banner()})
		return nil, rf
	}
	outcome.RenderID = rec.ID

	if s.repo != nil {
		if err := s.repo.CompleteRender(ctx, rec.ID, completion(outcome)); err != nil {
			logger.Warn("failed to record render completion", "error", err)
		}
	}
	s.setState(State{LastRenderID: rec.ID})

	logger.Info("render completed",
		"clips", outcome.ClipCount,
		"elapsed_ms", outcome.Elapsed.Milliseconds(),
		"size", humanize.Bytes(uint64(outcome.SizeBytes)),
	)
	return outcome, nil
}

// runRecovered reports a panic anywhere in the pipeline as an encode fault
// so the state machine and the ledger still settle.
func (s *Service) runRecovered(ctx context.Context, logger *slog.Logger, sub intake.Submission, outPath string) (outcome *Outcome, err error) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("render panicked", "panic", p, "stack", string(debug.Stack()))
			outcome, err = nil, fault(StageEncode, fmt.Errorf("%v", p))
		}
	}()
	return s.run(ctx, logger, sub, outPath)
}

func (s *Service) run(ctx context.Context, logger *slog.Logger, sub intake.Submission, outPath string) (*Outcome, error) {
	req, err := s.stager.Prepare(ctx, sub)
	if err != nil {
		return nil, fault(StageCollect, err)
	}

	tl, err := reel.Build(req)
	if err != nil {
		return nil, fault(StageBuild, err)
	}
	logger.Debug("timeline built", "clips", tl.ClipCount(), "duration", tl.Duration())

	res, err := s.encoder.Encode(ctx, tl, outPath)
	if err != nil {
		return nil, fault(StageEncode, err)
	}

	outcome := &Outcome{
		Spec:       sub.Spec,
		OutputPath: res.OutputPath,
		ClipCount:  res.ClipCount,
		Duration:   res.Timeline,
		SizeBytes:  res.SizeBytes,
		Elapsed:    res.Elapsed,
	}

	if s.prober != nil {
		probe, err := s.prober.Probe(ctx, res.OutputPath)
		if err != nil {
			logger.Warn("failed to probe output", "error", err)
		} else {
			outcome.Probe = probe
			logger.Debug("output probed",
				"width", probe.Width,
				"height", probe.Height,
				"duration", probe.Duration,
				"video_codec", probe.VideoCodec,
			)
		}
	}
	return outcome, nil
}

func (s *Service) recordFailure(ctx context.Context, logger *slog.Logger, id string, rf *RenderFault) {
	if s.repo == nil {
		return
	}
	if err := s.repo.FailRender(ctx, id, rf.Err.Error()); err != nil {
		logger.Warn("failed to record render failure", "error", err)
	}
}

func (s *Service) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

func completion(o *Outcome) history.Completion {
	c := history.Completion{
		ClipCount:  o.ClipCount,
		TimelineMS: o.Duration.Milliseconds(),
		ElapsedMS:  o.Elapsed.Milliseconds(),
		SizeBytes:  o.SizeBytes,
	}
	if o.Probe != nil {
		c.ProbeWidth = o.Probe.Width
		c.ProbeHeight = o.Probe.Height
		c.ProbeDurationMS = o.Probe.Duration.Milliseconds()
	}
	return c
}
