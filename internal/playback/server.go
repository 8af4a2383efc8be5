// Package playback serves the rendered artifact back to the browser, for
// inline preview with byte-range support and as a named download.
package playback

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"strconv"
	"time"
)

// ContentType of every artifact.
const ContentType = "video/mp4"

// ErrNoArtifact means the template has not been rendered yet.
var ErrNoArtifact = errors.New("reel has not been rendered yet")

type Presenter struct {
	logger *slog.Logger
}

func NewPresenter(logger *slog.Logger) *Presenter {
	return &Presenter{logger: logger}
}

// ServePreview streams the artifact inline.
func (p *Presenter) ServePreview(w http.ResponseWriter, r *http.Request, path string) error {
	return p.serve(w, r, path, "inline", "")
}

// ServeDownload streams the artifact as an attachment named downloadName.
func (p *Presenter) ServeDownload(w http.ResponseWriter, r *http.Request, path, downloadName string) error {
	return p.serve(w, r, path, "attachment", downloadName)
}

func (p *Presenter) serve(w http.ResponseWriter, r *http.Request, path, disposition, filename string) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNoArtifact
		}
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat artifact: %w", err)
	}
	return p.serveArtifact(w, r, file, stat.Size(), stat.ModTime(), disposition, filename)
}

// serveArtifact writes content as the response. Errors are only returned
// before anything has been written.
func (p *Presenter) serveArtifact(w http.ResponseWriter, r *http.Request, content io.ReadSeeker, size int64, modTime time.Time, disposition, filename string) error {
	rng, err := ParseRange(r.Header.Get("Range"), size)
	unsatisfiable := errors.Is(err, ErrUnsatisfiable)
	if err != nil {
		// Malformed ranges are ignored and the whole file is sent.
		rng = nil
	}

	if rng != nil && r.Method != http.MethodHead {
		if _, err := content.Seek(rng.Start, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek: %w", err)
		}
	}

	h := w.Header()
	h.Set("Accept-Ranges", "bytes")
	h.Set("Content-Type", ContentType)
	// The same path is overwritten by every render.
	h.Set("Cache-Control", "no-store")
	h.Set("Last-Modified", modTime.UTC().Format(http.TimeFormat))
	params := map[string]string{}
	if filename != "" {
		params["filename"] = filename
	}
	h.Set("Content-Disposition", mime.FormatMediaType(disposition, params))

	if unsatisfiable {
		h.Set("Content-Range", fmt.Sprintf("bytes */%d", size))
		http.Error(w, "Range Not Satisfiable", http.StatusRequestedRangeNotSatisfiable)
		return nil
	}

	if rng == nil {
		h.Set("Content-Length", strconv.FormatInt(size, 10))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			p.copy(w, content, size)
		}
		return nil
	}

	h.Set("Content-Length", strconv.FormatInt(rng.ContentLength(), 10))
	h.Set("Content-Range", rng.ContentRange(size))
	w.WriteHeader(http.StatusPartialContent)
	if r.Method != http.MethodHead {
		p.copy(w, content, rng.ContentLength())
	}
	return nil
}

func (p *Presenter) copy(w io.Writer, src io.Reader, n int64) {
	if _, err := io.CopyN(w, src, n); err != nil && p.logger != nil {
		p.logger.Debug("artifact stream interrupted", "error", err)
	}
}
