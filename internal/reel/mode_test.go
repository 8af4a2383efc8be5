package reel

import (
	"errors"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name         string
		wantOutput   string
		wantDownload string
		wantErr      error
	}{
		{"slideshow", "output_reel.mp4", "facebook_reel.mp4", nil},
		{"quote", "output_quote.mp4", "facebook_quote.mp4", nil},
		{"animation", "output_animation.mp4", "facebook_animation.mp4", nil},
		{"carousel", "", "", ErrUnknownMode},
		{"", "", "", ErrUnknownMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Lookup(tt.name)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Lookup(%q) error = %v, want %v", tt.name, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup(%q) unexpected error: %v", tt.name, err)
			}
			if spec.OutputName != tt.wantOutput {
				t.Errorf("OutputName = %q, want %q", spec.OutputName, tt.wantOutput)
			}
			if spec.DownloadName != tt.wantDownload {
				t.Errorf("DownloadName = %q, want %q", spec.DownloadName, tt.wantDownload)
			}
		})
	}
}

func TestModeSpec_CheckDuration(t *testing.T) {
	tests := []struct {
		mode    Mode
		seconds int
		wantErr bool
	}{
		{ModeSlideshow, 1, false},
		{ModeSlideshow, 5, false},
		{ModeSlideshow, 0, true},
		{ModeSlideshow, 6, true},
		{ModeQuote, 3, false},
		{ModeQuote, 10, false},
		{ModeQuote, 2, true},
		{ModeQuote, 11, true},
		{ModeAnimation, 1, false},
		{ModeAnimation, 5, false},
		{ModeAnimation, 6, true},
	}

	for _, tt := range tests {
		err := MustLookup(tt.mode).CheckDuration(tt.seconds)
		if (err != nil) != tt.wantErr {
			t.Errorf("%s.CheckDuration(%d) error = %v, wantErr %v", tt.mode, tt.seconds, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrDurationOutOfRange) {
			t.Errorf("%s.CheckDuration(%d) error = %v, want ErrDurationOutOfRange", tt.mode, tt.seconds, err)
		}
	}
}

func TestModes_DefaultsWithinBounds(t *testing.T) {
	modes := Modes()
	if len(modes) != 3 {
		t.Fatalf("len(Modes()) = %d, want 3", len(modes))
	}
	if modes[0].Mode != ModeSlideshow || modes[1].Mode != ModeQuote || modes[2].Mode != ModeAnimation {
		t.Errorf("Modes() order = %s, %s, %s", modes[0].Mode, modes[1].Mode, modes[2].Mode)
	}
	for _, m := range modes {
		if err := m.CheckDuration(m.DefaultDuration); err != nil {
			t.Errorf("%s default duration %d rejected: %v", m.Mode, m.DefaultDuration, err)
		}
	}
}
