package studio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

func TestPrepareOutputDir(t *testing.T) {
	base := t.TempDir()
	file := filepath.Join(base, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{"existing", base, false},
		{"created", filepath.Join(base, "new", "nested"), false},
		{"empty", " ", true},
		{"traversal", base + "/../x", true},
		{"not a dir", file, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PrepareOutputDir(tt.dir)
			if (err != nil) != tt.wantErr {
				t.Errorf("PrepareOutputDir(%q) error = %v, wantErr %v", tt.dir, err, tt.wantErr)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		mode reel.Mode
		want string
	}{
		{reel.ModeSlideshow, "output_reel.mp4"},
		{reel.ModeQuote, "output_quote.mp4"},
		{reel.ModeAnimation, "output_animation.mp4"},
	}
	for _, tt := range tests {
		if got := OutputPath("/srv", tt.mode); got != filepath.Join("/srv", tt.want) {
			t.Errorf("OutputPath(%s) = %q", tt.mode, got)
		}
	}
}

func TestNewService_RequiresEncoder(t *testing.T) {
	if _, err := NewService(Config{OutputDir: t.TempDir()}, nil, nil, nil, nil, testLogger()); err == nil {
		t.Error("NewService() without encoder should fail")
	}
}
