package reel

import (
	"fmt"
	"time"
)

// Request is a collected, loaded set of inputs for one template run.
type Request struct {
	Mode       Mode
	Images     []Asset
	Background *Asset
	Text       string
	Duration   time.Duration
}

// Build turns a request into the timeline for its template.
func Build(req Request) (Timeline, error) {
	switch req.Mode {
	case ModeSlideshow:
		return Slideshow(req.Images, req.Duration)
	case ModeQuote:
		return Quote(req.Text, req.Background, req.Duration)
	case ModeAnimation:
		return Animation(req.Text, req.Duration)
	default:
		return Timeline{}, fmt.Errorf("%w: %q", ErrUnknownMode, req.Mode)
	}
}
