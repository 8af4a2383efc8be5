package reel

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNoAssets = errors.New("nothing to render")

// Canvas is a solid-color backdrop spanning the whole frame.
type Canvas struct {
	Color    string
	Size     Size
	Duration time.Duration
}

// BlackCanvas is pure (0,0,0).
func BlackCanvas(d time.Duration) *Canvas {
	return &Canvas{Color: "0x000000", Size: FrameSize, Duration: d}
}

// Track is a run of clips played back to back.
type Track struct {
	Clips []Clip
}

func (t Track) Duration() time.Duration {
	var total time.Duration
	for _, c := range t.Clips {
		total += c.Duration
	}
	return total
}

// Timeline is the arrangement a render encodes. Tracks are stacked bottom
// to top over the optional canvas; each is centered on the frame.
type Timeline struct {
	Mode   Mode
	Canvas *Canvas
	Tracks []Track
}

// Duration is the longest of the canvas and every track.
func (t Timeline) Duration() time.Duration {
	var d time.Duration
	if t.Canvas != nil {
		d = t.Canvas.Duration
	}
	for _, tr := range t.Tracks {
		if td := tr.Duration(); td > d {
			d = td
		}
	}
	return d
}

func (t Timeline) Size() Size {
	if t.Canvas != nil {
		return t.Canvas.Size
	}
	return FrameSize
}

func (t Timeline) Clips() []Clip {
	var clips []Clip
	for _, tr := range t.Tracks {
		clips = append(clips, tr.Clips...)
	}
	return clips
}

func (t Timeline) ClipCount() int {
	n := 0
	for _, tr := range t.Tracks {
		n += len(tr.Clips)
	}
	return n
}

// Slideshow concatenates one image clip per asset in upload order.
func Slideshow(images []Asset, d time.Duration) (Timeline, error) {
	if len(images) == 0 {
		return Timeline{}, ErrNoAssets
	}
	clips := make([]Clip, 0, len(images))
	for i, img := range images {
		clip, err := ImageClip(img, d)
		if err != nil {
			return Timeline{}, fmt.Errorf("image %d: %w", i+1, err)
		}
		clips = append(clips, clip)
	}
	return Timeline{Mode: ModeSlideshow, Tracks: []Track{{Clips: clips}}}, nil
}

// Quote overlays the text on the background image clip, or on a black
// canvas when background is nil.
func Quote(text string, background *Asset, d time.Duration) (Timeline, error) {
	txt, err := TextClip(text, d)
	if err != nil {
		return Timeline{}, err
	}

	if background == nil {
		return Timeline{
			Mode:   ModeQuote,
			Canvas: BlackCanvas(d),
			Tracks: []Track{{Clips: []Clip{txt}}},
		}, nil
	}

	bg, err := ImageClip(*background, d)
	if err != nil {
		return Timeline{}, fmt.Errorf("background: %w", err)
	}
	return Timeline{
		Mode:   ModeQuote,
		Tracks: []Track{{Clips: []Clip{bg}}, {Clips: []Clip{txt}}},
	}, nil
}

// Animation plays one text clip per non-blank line over a black canvas
// spanning their total.
func Animation(text string, perLine time.Duration) (Timeline, error) {
	lines := SplitLines(text)
	if len(lines) == 0 {
		return Timeline{}, ErrNoAssets
	}
	clips := make([]Clip, 0, len(lines))
	for _, line := range lines {
		clip, err := TextClip(line, perLine)
		if err != nil {
			return Timeline{}, err
		}
		clips = append(clips, clip)
	}
	track := Track{Clips: clips}
	return Timeline{
		Mode:   ModeAnimation,
		Canvas: BlackCanvas(track.Duration()),
		Tracks: []Track{track},
	}, nil
}

// SplitLines splits on newlines, trims each line and drops blank ones.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if l := strings.TrimSpace(line); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
