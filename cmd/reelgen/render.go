package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/ruziwatakundanashe/reelgen/internal/config"
	"github.com/ruziwatakundanashe/reelgen/internal/intake"
	"github.com/ruziwatakundanashe/reelgen/internal/reel"
	"github.com/ruziwatakundanashe/reelgen/internal/studio"
)

type renderFlags struct {
	images     []string
	background string
	text       string
	duration   int
}

func newRenderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render <slideshow|quote|animation>",
		Short: "Render a reel without the web UI",
		Example: `  reelgen render slideshow --image a.jpg --image b.png --duration 3
  reelgen render quote --text "Stay curious" --background bg.jpg --duration 5
  reelgen render animation --text $'Hello\nWorld' --duration 2`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(reel.ModeSlideshow), string(reel.ModeQuote), string(reel.ModeAnimation)},
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := reel.Lookup(args[0])
			if err != nil {
				return err
			}
			sub, err := f.submission(spec, cmd.Flags().Changed("duration"))
			if err != nil {
				return err
			}
			return runRender(cmd, sub)
		},
	}

	cmd.Flags().StringArrayVarP(&f.images, "image", "i", nil, "Slideshow image (repeatable, in order)")
	cmd.Flags().StringVarP(&f.background, "background", "b", "", "Quote background image")
	cmd.Flags().StringVarP(&f.text, "text", "t", "", "Quote text, or animation lines separated by newlines")
	cmd.Flags().IntVarP(&f.duration, "duration", "d", 0, "Seconds per image, quote, or line (default per template)")
	return cmd
}

// submission builds the same Submission the web form produces.
func (f renderFlags) submission(spec reel.ModeSpec, durationSet bool) (intake.Submission, error) {
	seconds := spec.DefaultDuration
	if durationSet {
		seconds = f.duration
	}

	var images []intake.Upload
	for _, p := range f.images {
		u, err := intake.FileUpload(p)
		if err != nil {
			return intake.Submission{}, err
		}
		images = append(images, u)
	}

	var background *intake.Upload
	if f.background != "" {
		u, err := intake.FileUpload(f.background)
		if err != nil {
			return intake.Submission{}, err
		}
		background = &u
	}

	return intake.NewSubmission(spec, images, background, f.text, seconds)
}

func runRender(cmd *cobra.Command, sub intake.Submission) error {
	if !sub.Ready() {
		return fmt.Errorf("nothing to render: %s", missingInput(sub.Spec))
	}

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, closeLogs, err := cliLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogs()

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(cmd.ErrOrStderr(), sub.Spec.SpinnerText)
	outcome, err := a.studio.Generate(context.Background(), sub)
	if err != nil {
		var rf *studio.RenderFault
		if errors.As(err, &rf) {
			return errors.New(rf.Banner())
		}
		return err
	}

	fmt.Fprintln(out, outcome.Message())
	fmt.Fprintf(out, "%s (%d clips, %s, %s)\n",
		outcome.OutputPath,
		outcome.ClipCount,
		outcome.Duration,
		humanize.Bytes(uint64(outcome.SizeBytes)),
	)
	return nil
}

func missingInput(spec reel.ModeSpec) string {
	if spec.Mode == reel.ModeSlideshow {
		return "at least one --image is required"
	}
	return "--text is required"
}
