package intake

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/ruziwatakundanashe/reelgen/internal/logging"
	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

const maxParallelStaging = 4

// Stager copies uploads into per-file temp directories. Staged files are
// left in place after the render.
type Stager struct {
	baseDir string
	logger  *slog.Logger
}

func NewStager(baseDir string, logger *slog.Logger) *Stager {
	return &Stager{baseDir: baseDir, logger: logger}
}

// Stage writes every upload to disk and returns the paths in upload order.
func (s *Stager) Stage(ctx context.Context, uploads []Upload) ([]string, error) {
	paths := make([]string, len(uploads))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelStaging)
	for i, u := range uploads {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := s.stageOne(u)
			if err != nil {
				return err
			}
			paths[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

func (s *Stager) stageOne(u Upload) (string, error) {
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return "", fmt.Errorf("cannot create upload dir: %w", err)
	}
	dir, err := os.MkdirTemp(s.baseDir, "reelgen-upload-*")
	if err != nil {
		return "", fmt.Errorf("cannot create upload dir: %w", err)
	}
	path := filepath.Join(dir, SanitizeName(u.Name, maxNameLen))

	src, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", u.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("cannot create %s: %w", path, err)
	}
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("cannot write %s: %w", u.Name, err)
	}

	s.logger.Debug("upload staged", "name", u.Name, "path", logging.SanitizePath(path), "bytes", n)
	return path, nil
}

// LoadImage reads the pixel dimensions of a jpeg or png on disk.
func LoadImage(path string) (reel.Asset, error) {
	f, err := os.Open(path)
	if err != nil {
		return reel.Asset{}, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return reel.Asset{}, fmt.Errorf("cannot read image %s: %w", filepath.Base(path), err)
	}
	asset := reel.ImageAsset(path, cfg.Width, cfg.Height)
	asset.Name = filepath.Base(path)
	return asset, nil
}

// Prepare stages the submission's files, reads their dimensions and
// returns the request the clip builder consumes.
func (s *Stager) Prepare(ctx context.Context, sub Submission) (reel.Request, error) {
	req := reel.Request{
		Mode:     sub.Spec.Mode,
		Text:     sub.Text,
		Duration: sub.Duration(),
	}

	uploads := sub.Images
	if sub.Background != nil {
		uploads = []Upload{*sub.Background}
	}
	if len(uploads) == 0 {
		return req, nil
	}

	paths, err := s.Stage(ctx, uploads)
	if err != nil {
		return reel.Request{}, err
	}

	assets := make([]reel.Asset, 0, len(paths))
	for _, p := range paths {
		a, err := LoadImage(p)
		if err != nil {
			return reel.Request{}, err
		}
		assets = append(assets, a)
	}

	if sub.Background != nil {
		req.Background = &assets[0]
	} else {
		req.Images = assets
	}
	return req, nil
}
