// Package reel holds the domain model of the reel generator: the three
// template modes, the assets a user supplies, the clips built from them and
// the timeline a render encodes.
package reel

import (
	"errors"
	"fmt"
	"time"
)

type Mode string

const (
	ModeSlideshow Mode = "slideshow"
	ModeQuote     Mode = "quote"
	ModeAnimation Mode = "animation"
)

var (
	ErrUnknownMode        = errors.New("unknown template")
	ErrDurationOutOfRange = errors.New("duration out of range")
)

// ModeSpec describes one template: its form labels, the bounds of its
// duration slider and the fixed names of its artifact.
type ModeSpec struct {
	Mode            Mode   `json:"mode"`
	Title           string `json:"title"`
	Heading         string `json:"heading"`
	TextLabel       string `json:"text_label,omitempty"`
	ImagesLabel     string `json:"images_label,omitempty"`
	DurationLabel   string `json:"duration_label"`
	ButtonLabel     string `json:"button_label"`
	SpinnerText     string `json:"spinner_text"`
	SuccessText     string `json:"success_text"`
	MinDuration     int    `json:"min_duration"`
	MaxDuration     int    `json:"max_duration"`
	DefaultDuration int    `json:"default_duration"`
	OutputName      string `json:"output_name"`
	DownloadName    string `json:"download_name"`
}

var modeOrder = []Mode{ModeSlideshow, ModeQuote, ModeAnimation}

var modeSpecs = map[Mode]ModeSpec{
	ModeSlideshow: {
		Mode:            ModeSlideshow,
		Title:           "Image Slideshow",
		Heading:         "🖼️ Image Slideshow",
		ImagesLabel:     "Upload Images",
		DurationLabel:   "Transition Duration (seconds)",
		ButtonLabel:     "Generate Slideshow",
		SpinnerText:     "Creating your reel...",
		SuccessText:     "✨ Your reel is ready!",
		MinDuration:     1,
		MaxDuration:     5,
		DefaultDuration: 3,
		OutputName:      "output_reel.mp4",
		DownloadName:    "facebook_reel.mp4",
	},
	ModeQuote: {
		Mode:            ModeQuote,
		Title:           "Quote with Background",
		Heading:         "💭 Quote with Background",
		TextLabel:       "Enter Your Quote",
		ImagesLabel:     "Upload Background Image (Optional)",
		DurationLabel:   "Duration (seconds)",
		ButtonLabel:     "Generate Quote Reel",
		SpinnerText:     "Creating your quote reel...",
		SuccessText:     "✨ Your quote reel is ready!",
		MinDuration:     3,
		MaxDuration:     10,
		DefaultDuration: 5,
		OutputName:      "output_quote.mp4",
		DownloadName:    "facebook_quote.mp4",
	},
	ModeAnimation: {
		Mode:            ModeAnimation,
		Title:           "Text Animation",
		Heading:         "✨ Text Animation",
		TextLabel:       "Enter Text (one line per animation)",
		DurationLabel:   "Duration per Text (seconds)",
		ButtonLabel:     "Generate Animation",
		SpinnerText:     "Creating your text animation...",
		SuccessText:     "✨ Your animated reel is ready!",
		MinDuration:     1,
		MaxDuration:     5,
		DefaultDuration: 2,
		OutputName:      "output_animation.mp4",
		DownloadName:    "facebook_animation.mp4",
	},
}

// Modes returns every template spec in sidebar order.
func Modes() []ModeSpec {
	specs := make([]ModeSpec, 0, len(modeOrder))
	for _, m := range modeOrder {
		specs = append(specs, modeSpecs[m])
	}
	return specs
}

// Lookup resolves a template name such as "quote".
func Lookup(name string) (ModeSpec, error) {
	spec, ok := modeSpecs[Mode(name)]
	if !ok {
		return ModeSpec{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return spec, nil
}

// MustLookup is Lookup for the built-in mode constants.
func MustLookup(m Mode) ModeSpec {
	spec, err := Lookup(string(m))
	if err != nil {
		panic(err)
	}
	return spec
}

// CheckDuration validates a slider value in whole seconds.
func (s ModeSpec) CheckDuration(seconds int) error {
	if seconds < s.MinDuration || seconds > s.MaxDuration {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d",
			ErrDurationOutOfRange, s.DurationLabel, s.MinDuration, s.MaxDuration, seconds)
	}
	return nil
}

func (s ModeSpec) Default() time.Duration {
	return Seconds(s.DefaultDuration)
}

// Seconds converts a whole-second slider value to a time.Duration.
func Seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
