package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruziwatakundanashe/reelgen/internal/config"
	"github.com/ruziwatakundanashe/reelgen/internal/render"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that ffmpeg has the encoders and filters reels need",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger, closeLogs, err := cliLogger(cfg)
		if err != nil {
			return err
		}
		defer closeLogs()

		encoder, err := render.NewEncoder(render.Config{
			FFmpegPath:    cfg.FFmpegPath(),
			ScratchDir:    cfg.ScratchDir(),
			DoctorTimeout: config.DoctorTimeout,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.DoctorTimeout)
		defer cancel()
		caps, err := render.NewCachedDoctor(encoder, logger).Refresh(ctx)
		if err != nil {
			return fmt.Errorf("ffmpeg probe failed: %w", err)
		}

		fmt.Fprint(cmd.OutOrStdout(), doctorReport(caps))
		if !caps.Ready() {
			return fmt.Errorf("ffmpeg is missing %d required feature(s)", len(caps.Missing()))
		}
		return nil
	},
}

func doctorReport(c *render.Capabilities) string {
	check := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "MISSING"
	}
	return fmt.Sprintf(`ffmpeg %s
  libx264   %s
  aac       %s
  drawtext  %s
  zoompan   %s
  overlay   %s
  concat    %s
`,
		c.Version,
		check(c.HasLibx264),
		check(c.HasAAC),
		check(c.HasDrawtext),
		check(c.HasZoompan),
		check(c.HasOverlay),
		check(c.HasConcat),
	)
}
