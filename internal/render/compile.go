package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

const (
	VideoCodec  = "libx264"
	AudioCodec  = "aac"
	PixelFormat = "yuv420p"
)

// Plan is a compiled ffmpeg invocation for one timeline.
type Plan struct {
	Args       []string
	OutputPath string
	ClipCount  int
	Duration   time.Duration
	ScratchDir string
}

// Compiler turns a reel.Timeline into an ffmpeg filter graph.
type Compiler struct {
	scratchBase string
	fontFile    string
}

// NewCompiler creates a compiler. Text clips are written as drawtext
// textfiles under scratchBase (OS temp dir when empty).
func NewCompiler(scratchBase, fontFile string) *Compiler {
	return &Compiler{scratchBase: scratchBase, fontFile: fontFile}
}

// Compile builds the ffmpeg argument list that renders tl to outputPath.
func (c *Compiler) Compile(tl reel.Timeline, outputPath string) (plan *Plan, err error) {
	if len(tl.Tracks) == 0 || tl.ClipCount() == 0 {
		return nil, reel.ErrNoAssets
	}

	// ffmpeg-go reports a malformed graph by panicking in GetArgs.
	defer func() {
		if p := recover(); p != nil {
			plan, err = nil, fmt.Errorf("invalid filter graph: %v", p)
		}
	}()

	scratch := ""
	for _, clip := range tl.Clips() {
		if clip.IsText() {
			dir, err := c.scratchDir()
			if err != nil {
				return nil, err
			}
			scratch = dir
			break
		}
	}

	var layers []*ffmpeg.Stream
	if tl.Canvas != nil {
		layers = append(layers, canvasStream(tl.Canvas))
	}

	pool := newSourcePool(tl.Clips())

	n := 0
	for _, track := range tl.Tracks {
		streams := make([]*ffmpeg.Stream, 0, len(track.Clips))
		for _, clip := range track.Clips {
			s, err := c.clipStream(pool, clip, n, scratch)
			if err != nil {
				return nil, fmt.Errorf("clip %d: %w", n+1, err)
			}
			streams = append(streams, s)
			n++
		}
		layers = append(layers, sequence(streams))
	}

	out := layers[0]
	for _, top := range layers[1:] {
		out = overlay(out, top)
	}
	out = out.Filter("format", ffmpeg.Args{PixelFormat})

	args := out.Output(outputPath, ffmpeg.KwArgs{
		"r":        strconv.Itoa(reel.FrameRate),
		"c:v":      VideoCodec,
		"c:a":      AudioCodec,
		"movflags": "+faststart",
	}).OverWriteOutput().GetArgs()

	return &Plan{
		Args:       args,
		OutputPath: outputPath,
		ClipCount:  n,
		Duration:   tl.Duration(),
		ScratchDir: scratch,
	}, nil
}

func (c *Compiler) scratchDir() (string, error) {
	base := c.scratchBase
	if base == "" {
		base = os.TempDir()
	}
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", fmt.Errorf("cannot create scratch dir: %w", err)
	}
	dir, err := os.MkdirTemp(base, "reelgen-text-*")
	if err != nil {
		return "", fmt.Errorf("cannot create scratch dir: %w", err)
	}
	return dir, nil
}

func (c *Compiler) clipStream(pool *sourcePool, clip reel.Clip, idx int, scratch string) (*ffmpeg.Stream, error) {
	switch clip.Asset.Kind {
	case reel.AssetImage:
		return imageStream(pool.stream(clip), clip), nil
	case reel.AssetText:
		path := filepath.Join(scratch, fmt.Sprintf("text-%03d.txt", idx))
		if err := os.WriteFile(path, []byte(clip.Asset.Text), 0644); err != nil {
			return nil, fmt.Errorf("cannot write text file: %w", err)
		}
		return c.textStream(pool.stream(clip), clip, path), nil
	default:
		return nil, fmt.Errorf("unsupported asset kind %s", clip.Asset.Kind)
	}
}

// sourcePool hands out the input stream of each clip. ffmpeg-go merges
// nodes with identical arguments, so a source shared by several clips (equal
// text durations, a repeated image) is read once and split.
type sourcePool struct {
	uses   map[string]int
	splits map[string]*ffmpeg.Node
	next   map[string]int
}

func newSourcePool(clips []reel.Clip) *sourcePool {
	p := &sourcePool{
		uses:   make(map[string]int),
		splits: make(map[string]*ffmpeg.Node),
		next:   make(map[string]int),
	}
	for _, clip := range clips {
		p.uses[sourceKey(clip)]++
	}
	return p
}

func (p *sourcePool) stream(clip reel.Clip) *ffmpeg.Stream {
	key := sourceKey(clip)
	if p.uses[key] < 2 {
		return openSource(clip)
	}
	node, ok := p.splits[key]
	if !ok {
		node = openSource(clip).Split()
		p.splits[key] = node
	}
	i := p.next[key]
	p.next[key]++
	return node.Get(strconv.Itoa(i))
}

func sourceKey(clip reel.Clip) string {
	if clip.IsText() {
		return "text:" + textSource(clip)
	}
	return fmt.Sprintf("image:%s:%s", clip.Asset.Path, seconds(clip.Duration))
}

func openSource(clip reel.Clip) *ffmpeg.Stream {
	if clip.IsText() {
		return ffmpeg.Input(textSource(clip), ffmpeg.KwArgs{"f": "lavfi"})
	}
	return ffmpeg.Input(clip.Asset.Path, ffmpeg.KwArgs{
		"loop":      "1",
		"framerate": strconv.Itoa(reel.FrameRate),
		"t":         seconds(clip.Duration),
	})
}

// textSource is a transparent frame-sized canvas for one text clip.
func textSource(clip reel.Clip) string {
	return fmt.Sprintf("color=c=black@0.0:s=%s:r=%d:d=%s", clip.Size, reel.FrameRate, seconds(clip.Duration))
}

func imageStream(s *ffmpeg.Stream, clip reel.Clip) *ffmpeg.Stream {
	fit := clip.Fit
	s = s.Filter("scale", ffmpeg.Args{itoa(fit.Scaled.Width), itoa(fit.Scaled.Height)})

	switch {
	case fit.Crop != nil:
		s = s.Filter("crop", ffmpeg.Args{
			itoa(fit.Crop.Width), itoa(fit.Crop.Height), itoa(fit.Crop.X), itoa(fit.Crop.Y),
		})
	case fit.Scaled.Width < reel.FrameWidth:
		s = s.Filter("pad", ffmpeg.Args{
			itoa(reel.FrameWidth), itoa(reel.FrameHeight), itoa(fit.PadX), "0",
		}, ffmpeg.KwArgs{"color": "black"})
	}

	if clip.ZoomRate > 0 {
		s = s.Filter("zoompan", ffmpeg.Args{}, ffmpeg.KwArgs{
			"z":   zoomExpr(clip.ZoomRate),
			"d":   "1",
			"x":   "iw/2-(iw/zoom/2)",
			"y":   "ih/2-(ih/zoom/2)",
			"s":   clip.Size.String(),
			"fps": strconv.Itoa(reel.FrameRate),
		})
	}

	s = s.Filter("setsar", ffmpeg.Args{"1"}).Filter("format", ffmpeg.Args{PixelFormat})
	return fades(s, clip, false)
}

func (c *Compiler) textStream(s *ffmpeg.Stream, clip reel.Clip, textFile string) *ffmpeg.Stream {
	s = s.Filter("format", ffmpeg.Args{"rgba"})

	// expansion=none draws the text file literally, % and \ included.
	kw := ffmpeg.KwArgs{
		"textfile":  textFile,
		"expansion": "none",
		"fontsize":  itoa(clip.Style.FontSize),
		"fontcolor": clip.Style.Color,
		"x":         "(w-text_w)/2",
		"y":         "(h-text_h)/2",
	}
	if c.fontFile != "" {
		kw["fontfile"] = c.fontFile
	}
	s = s.Filter("drawtext", ffmpeg.Args{}, kw)
	return fades(s, clip, true)
}

func canvasStream(cv *reel.Canvas) *ffmpeg.Stream {
	src := fmt.Sprintf("color=c=%s:s=%s:r=%d:d=%s", cv.Color, cv.Size, reel.FrameRate, seconds(cv.Duration))
	return ffmpeg.Input(src, ffmpeg.KwArgs{"f": "lavfi"})
}

func fades(s *ffmpeg.Stream, clip reel.Clip, alpha bool) *ffmpeg.Stream {
	if clip.FadeIn > 0 {
		kw := ffmpeg.KwArgs{"t": "in", "st": "0", "d": seconds(clip.FadeIn)}
		if alpha {
			kw["alpha"] = "1"
		}
		s = s.Filter("fade", ffmpeg.Args{}, kw)
	}
	if clip.FadeOut > 0 {
		kw := ffmpeg.KwArgs{"t": "out", "st": seconds(clip.FadeOutStart()), "d": seconds(clip.FadeOut)}
		if alpha {
			kw["alpha"] = "1"
		}
		s = s.Filter("fade", ffmpeg.Args{}, kw)
	}
	return s
}

func sequence(streams []*ffmpeg.Stream) *ffmpeg.Stream {
	if len(streams) == 1 {
		return streams[0]
	}
	return ffmpeg.Concat(streams)
}

func overlay(base, top *ffmpeg.Stream) *ffmpeg.Stream {
	return ffmpeg.Filter([]*ffmpeg.Stream{base, top}, "overlay", ffmpeg.Args{}, ffmpeg.KwArgs{
		"x": "(W-w)/2",
		"y": "(H-h)/2",
	})
}

func zoomExpr(rate float64) string {
	return fmt.Sprintf("1+%s*in/%d", strconv.FormatFloat(rate, 'f', -1, 64), reel.FrameRate)
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
