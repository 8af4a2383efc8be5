package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

func compileArgs(t *testing.T, c *Compiler, tl reel.Timeline) (*Plan, string) {
	t.Helper()
	plan, err := c.Compile(tl, "/out/output_reel.mp4")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return plan, strings.Join(plan.Args, " ")
}

func filterGraph(t *testing.T, args []string) string {
	t.Helper()
	for i, a := range args {
		if a == "-filter_complex" && i+1 < len(args) {
			return args[i+1]
		}
	}
	t.Fatalf("no -filter_complex in %v", args)
	return ""
}

func TestCompile_Slideshow(t *testing.T) {
	tl, err := reel.Slideshow([]reel.Asset{
		reel.ImageAsset("/in/wide.jpg", 1920, 1080),
		reel.ImageAsset("/in/tall.png", 1000, 2000),
	}, 3*time.Second)
	if err != nil {
		t.Fatalf("Slideshow() error = %v", err)
	}

	plan, joined := compileArgs(t, NewCompiler(t.TempDir(), ""), tl)
	graph := filterGraph(t, plan.Args)

	for _, want := range []string{
		"-loop 1", "-framerate 30", "-t 3", "-i /in/wide.jpg", "-i /in/tall.png",
		"-c:v libx264", "-c:a aac", "-r 30", "-movflags +faststart", "/out/output_reel.mp4", "-y",
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("args missing %q: %s", want, joined)
		}
	}
	for _, want := range []string{
		"scale=3413:1920", "crop=1080:1920:1166:0",
		"scale=960:1920", "pad=1080:1920:60:0",
		"zoompan=", "z=1+0.05*in/30", "s=1080x1920",
		"fade=d=0.5:st=0:t=in", "fade=d=0.5:st=2.5:t=out",
		"concat=", "n=2", "format=yuv420p",
	} {
		if !strings.Contains(graph, want) {
			t.Errorf("filter graph missing %q: %s", want, graph)
		}
	}
	if strings.Contains(graph, "drawtext") || strings.Contains(graph, "overlay") {
		t.Errorf("slideshow graph should not draw text or overlay: %s", graph)
	}
	if plan.ClipCount != 2 || plan.Duration != 6*time.Second {
		t.Errorf("plan = %d clips / %s, want 2 / 6s", plan.ClipCount, plan.Duration)
	}
	if plan.ScratchDir != "" {
		t.Errorf("ScratchDir = %q, want none for image-only timeline", plan.ScratchDir)
	}
}

func TestCompile_QuoteOnBlack(t *testing.T) {
	tl, err := reel.Quote("Keep going: it's worth it", nil, 5*time.Second)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	plan, joined := compileArgs(t, NewCompiler(t.TempDir(), "/fonts/Sans.ttf"), tl)
	graph := filterGraph(t, plan.Args)

	if !strings.Contains(joined, "-f lavfi -i color=c=0x000000:s=1080x1920:r=30:d=5") {
		t.Errorf("missing black canvas input: %s", joined)
	}
	if !strings.Contains(joined, "color=c=black@0.0:s=1080x1920:r=30:d=5") {
		t.Errorf("missing transparent text canvas: %s", joined)
	}
	for _, want := range []string{"drawtext=", "fontsize=70", "fontcolor=white", "fontfile=", "overlay=", "alpha=1"} {
		if !strings.Contains(graph, want) {
			t.Errorf("filter graph missing %q: %s", want, graph)
		}
	}

	data, err := os.ReadFile(filepath.Join(plan.ScratchDir, "text-000.txt"))
	if err != nil {
		t.Fatalf("text file not written: %v", err)
	}
	if string(data) != "Keep going: it's worth it" {
		t.Errorf("text file = %q", data)
	}
}

func TestCompile_QuoteWithBackground(t *testing.T) {
	bg := reel.ImageAsset("/in/bg.jpg", 1080, 1920)
	tl, err := reel.Quote("Hi", &bg, 4*time.Second)
	if err != nil {
		t.Fatalf("Quote() error = %v", err)
	}

	plan, joined := compileArgs(t, NewCompiler(t.TempDir(), ""), tl)
	graph := filterGraph(t, plan.Args)

	if strings.Contains(joined, "0x000000") {
		t.Errorf("background quote should not use a black canvas: %s", joined)
	}
	if !strings.Contains(joined, "-i /in/bg.jpg") || !strings.Contains(graph, "overlay=") {
		t.Errorf("want background input overlaid with text: %s", joined)
	}
	if strings.Contains(graph, "fontfile") {
		t.Errorf("fontfile set without a configured font: %s", graph)
	}
}

func TestCompile_AnimationWritesOneFilePerLine(t *testing.T) {
	tl, err := reel.Animation("one\n\ntwo\nthree", 2*time.Second)
	if err != nil {
		t.Fatalf("Animation() error = %v", err)
	}

	plan, joined := compileArgs(t, NewCompiler(t.TempDir(), ""), tl)
	graph := filterGraph(t, plan.Args)

	if !strings.Contains(joined, "color=c=0x000000:s=1080x1920:r=30:d=6") {
		t.Errorf("canvas should span 6s: %s", joined)
	}
	if !strings.Contains(graph, "n=3") {
		t.Errorf("want concat of 3 text clips: %s", graph)
	}
	// Equal-length lines share one transparent source, split three ways.
	if got := strings.Count(joined, "-i color=c=black@0.0"); got != 1 {
		t.Errorf("transparent source inputs = %d, want 1: %s", got, joined)
	}
	if !strings.Contains(graph, "split=3") {
		t.Errorf("want split=3 of the text source: %s", graph)
	}
	if got := strings.Count(graph, "drawtext="); got != 3 {
		t.Errorf("drawtext filters = %d, want 3: %s", got, graph)
	}
	for i, want := range []string{"one", "two", "three"} {
		data, err := os.ReadFile(filepath.Join(plan.ScratchDir, fmt.Sprintf("text-%03d.txt", i)))
		if err != nil {
			t.Fatalf("text file %d: %v", i, err)
		}
		if string(data) != want {
			t.Errorf("text file %d = %q, want %q", i, data, want)
		}
	}
}

func TestCompile_RepeatedImageIsSplit(t *testing.T) {
	img := reel.ImageAsset("/in/same.jpg", 1080, 1920)
	tl, err := reel.Slideshow([]reel.Asset{img, img}, 2*time.Second)
	if err != nil {
		t.Fatalf("Slideshow() error = %v", err)
	}

	plan, joined := compileArgs(t, NewCompiler(t.TempDir(), ""), tl)
	graph := filterGraph(t, plan.Args)

	if got := strings.Count(joined, "-i /in/same.jpg"); got != 1 {
		t.Errorf("inputs of /in/same.jpg = %d, want 1: %s", got, joined)
	}
	if !strings.Contains(graph, "split=2") || !strings.Contains(graph, "n=2") {
		t.Errorf("want split=2 feeding concat n=2: %s", graph)
	}
}

func TestCompile_TextIsDrawnLiterally(t *testing.T) {
	for _, text := range []string{"Give it 100% today", `C:\new %{pts} 50% off`} {
		tl, err := reel.Animation(text+"\n"+text, 2*time.Second)
		if err != nil {
			t.Fatalf("Animation(%q) error = %v", text, err)
		}

		plan, _ := compileArgs(t, NewCompiler(t.TempDir(), ""), tl)
		graph := filterGraph(t, plan.Args)

		if got := strings.Count(graph, "expansion=none"); got != 2 {
			t.Errorf("expansion=none on %d drawtext filters, want 2: %s", got, graph)
		}
		for i := 0; i < 2; i++ {
			data, err := os.ReadFile(filepath.Join(plan.ScratchDir, fmt.Sprintf("text-%03d.txt", i)))
			if err != nil {
				t.Fatalf("text file %d: %v", i, err)
			}
			if string(data) != text {
				t.Errorf("text file %d = %q, want %q", i, data, text)
			}
		}
	}
}

func TestCompile_EmptyTimeline(t *testing.T) {
	if _, err := NewCompiler(t.TempDir(), "").Compile(reel.Timeline{}, "x.mp4"); err == nil {
		t.Fatal("Compile(empty) error = nil, want error")
	}
}

func TestSeconds(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{3 * time.Second, "3"},
		{500 * time.Millisecond, "0.5"},
		{2500 * time.Millisecond, "2.5"},
	}
	for _, tt := range tests {
		if got := seconds(tt.d); got != tt.want {
			t.Errorf("seconds(%s) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
