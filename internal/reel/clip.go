package reel

import (
	"errors"
	"fmt"
	"time"
)

const (
	FrameWidth  = 1080
	FrameHeight = 1920
	FrameRate   = 30

	FadeDuration    = 500 * time.Millisecond
	ZoomRate        = 0.05 // scale factor gained per second of clip time
	DefaultFontSize = 70
	DefaultColor    = "white"
)

var (
	ErrInvalidDimensions   = errors.New("image has invalid dimensions")
	ErrInvalidDuration     = errors.New("clip duration must be positive")
	ErrFadeExceedsDuration = errors.New("fade-in and fade-out exceed clip duration")
	ErrEmptyText           = errors.New("text is empty")
)

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// FrameSize is the size of every clip and of the rendered reel.
var FrameSize = Size{Width: FrameWidth, Height: FrameHeight}

type AssetKind int

const (
	AssetImage AssetKind = iota
	AssetText
)

func (k AssetKind) String() string {
	switch k {
	case AssetImage:
		return "image"
	case AssetText:
		return "text"
	default:
		return "unknown"
	}
}

// Asset is one user-supplied input: an image on disk with its pixel
// dimensions, or a text string.
type Asset struct {
	Kind   AssetKind
	Path   string
	Name   string
	Width  int
	Height int
	Text   string
}

func ImageAsset(path string, width, height int) Asset {
	return Asset{Kind: AssetImage, Path: path, Width: width, Height: height}
}

func TextAsset(text string) Asset {
	return Asset{Kind: AssetText, Text: text}
}

// Crop is a window into a scaled image, in scaled pixels.
type Crop struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Fit is the geometry that maps an image onto the reel frame: scale to the
// frame height, then either crop the center or pad the sides.
type Fit struct {
	Scaled Size
	Crop   *Crop
	PadX   int
}

// FitToFrame computes the height-fitting geometry for an image of w×h.
// The scaled width is floor(w·1920/h). Images wider than the frame after
// scaling are center-cropped to 1080; narrower ones are centered on black.
func FitToFrame(w, h int) (Fit, error) {
	if w <= 0 || h <= 0 {
		return Fit{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, w, h)
	}

	newW := int(float64(w) * (float64(FrameHeight) / float64(h)))
	if newW < 1 {
		newW = 1
	}
	fit := Fit{Scaled: Size{Width: newW, Height: FrameHeight}}

	switch {
	case newW > FrameWidth:
		center := newW / 2
		fit.Crop = &Crop{X: center - FrameWidth/2, Y: 0, Width: FrameWidth, Height: FrameHeight}
	case newW < FrameWidth:
		fit.PadX = (FrameWidth - newW) / 2
	}
	return fit, nil
}

// Output is the size the fitted image occupies on the frame.
func (f Fit) Output() Size {
	if f.Crop != nil {
		return Size{Width: f.Crop.Width, Height: f.Crop.Height}
	}
	if f.Scaled.Width < FrameWidth {
		return FrameSize
	}
	return f.Scaled
}

type TextStyle struct {
	FontSize   int
	Color      string
	Background string
}

func DefaultTextStyle() TextStyle {
	return TextStyle{FontSize: DefaultFontSize, Color: DefaultColor, Background: "transparent"}
}

// Clip is one fixed-duration 1080×1920 visual unit derived from exactly one
// asset.
type Clip struct {
	Asset    Asset
	Duration time.Duration
	Size     Size
	FadeIn   time.Duration
	FadeOut  time.Duration

	// image clips
	Fit      Fit
	ZoomRate float64

	// text clips
	Style TextStyle
}

// FadeOutStart is the clip-relative time the fade-out begins.
func (c Clip) FadeOutStart() time.Duration {
	return c.Duration - c.FadeOut
}

func (c Clip) IsText() bool {
	return c.Asset.Kind == AssetText
}

func checkFades(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDuration, d)
	}
	if 2*FadeDuration > d {
		return fmt.Errorf("%w: %s + %s > %s", ErrFadeExceedsDuration, FadeDuration, FadeDuration, d)
	}
	return nil
}

// ImageClip builds the clip for an image asset: height-fit, center crop,
// a linear zoom of 1+0.05·t and half-second fades.
func ImageClip(asset Asset, d time.Duration) (Clip, error) {
	if asset.Kind != AssetImage {
		return Clip{}, fmt.Errorf("image clip from %s asset", asset.Kind)
	}
	if err := checkFades(d); err != nil {
		return Clip{}, err
	}
	fit, err := FitToFrame(asset.Width, asset.Height)
	if err != nil {
		return Clip{}, fmt.Errorf("%s: %w", asset.Name, err)
	}
	return Clip{
		Asset:    asset,
		Duration: d,
		Size:     FrameSize,
		FadeIn:   FadeDuration,
		FadeOut:  FadeDuration,
		Fit:      fit,
		ZoomRate: ZoomRate,
	}, nil
}

// TextClip builds a centered white text clip on a transparent frame.
func TextClip(text string, d time.Duration) (Clip, error) {
	if text == "" {
		return Clip{}, ErrEmptyText
	}
	if err := checkFades(d); err != nil {
		return Clip{}, err
	}
	return Clip{
		Asset:    TextAsset(text),
		Duration: d,
		Size:     FrameSize,
		FadeIn:   FadeDuration,
		FadeOut:  FadeDuration,
		Style:    DefaultTextStyle(),
	}, nil
}
