// Package intake collects template inputs: uploaded images, free text and
// a duration. It filters file types, checks presence of required fields and
// stages uploads to disk.
package intake

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

const (
	FieldImages     = "images"
	FieldBackground = "background"
	FieldText       = "text"
	FieldDuration   = "duration"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrInvalidDuration = errors.New("invalid duration")
)

// AllowedExtensions are the accepted image types.
var AllowedExtensions = []string{".jpg", ".jpeg", ".png"}

// Upload is one file supplied by the user, from a form or from disk.
type Upload struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

func MultipartUpload(fh *multipart.FileHeader) Upload {
	return Upload{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) { return fh.Open() },
	}
}

func FileUpload(path string) (Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Upload{}, err
	}
	if info.IsDir() {
		return Upload{}, fmt.Errorf("%s is a directory", path)
	}
	return Upload{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) { return os.Open(path) },
	}, nil
}

// IsAllowedImage reports whether name has a jpg, jpeg or png extension.
func IsAllowedImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// Submission is what the user entered for one template.
type Submission struct {
	Spec            reel.ModeSpec
	Images          []Upload
	Background      *Upload
	Text            string
	DurationSeconds int
}

// NewSubmission validates types and the duration. Fields a template does
// not use are dropped.
func NewSubmission(spec reel.ModeSpec, images []Upload, background *Upload, text string, seconds int) (Submission, error) {
	if err := spec.CheckDuration(seconds); err != nil {
		return Submission{}, err
	}

	sub := Submission{Spec: spec, DurationSeconds: seconds}
	switch spec.Mode {
	case reel.ModeSlideshow:
		for _, u := range images {
			if !IsAllowedImage(u.Name) {
				return Submission{}, unsupported(u.Name)
			}
		}
		sub.Images = images
	case reel.ModeQuote:
		if background != nil {
			if !IsAllowedImage(background.Name) {
				return Submission{}, unsupported(background.Name)
			}
			sub.Background = background
		}
		sub.Text = text
	case reel.ModeAnimation:
		sub.Text = text
	default:
		return Submission{}, fmt.Errorf("%w: %q", reel.ErrUnknownMode, spec.Mode)
	}
	return sub, nil
}

func unsupported(name string) error {
	return fmt.Errorf("%w: %q (allowed: %s)", ErrUnsupportedType, name, strings.Join(AllowedExtensions, ", "))
}

// FromMultipart reads a template form. A missing duration means the
// slider default.
func FromMultipart(spec reel.ModeSpec, form *multipart.Form) (Submission, error) {
	seconds := spec.DefaultDuration
	var text string
	var images []Upload
	var background *Upload

	if form != nil {
		if v := firstValue(form, FieldDuration); v != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return Submission{}, fmt.Errorf("%w: %q is not a whole number of seconds", ErrInvalidDuration, v)
			}
			seconds = n
		}
		text = firstValue(form, FieldText)

		for _, fh := range form.File[FieldImages] {
			images = append(images, MultipartUpload(fh))
		}
		if fhs := form.File[FieldBackground]; len(fhs) > 0 {
			u := MultipartUpload(fhs[0])
			background = &u
		}
	}

	return NewSubmission(spec, images, background, text, seconds)
}

func firstValue(form *multipart.Form, key string) string {
	if vs := form.Value[key]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Ready reports whether every required field is present. A submission
// that is not ready is a no-op, not an error.
func (s Submission) Ready() bool {
	switch s.Spec.Mode {
	case reel.ModeSlideshow:
		return len(s.Images) > 0
	case reel.ModeQuote, reel.ModeAnimation:
		return strings.TrimSpace(s.Text) != ""
	default:
		return false
	}
}

func (s Submission) Duration() time.Duration {
	return reel.Seconds(s.DurationSeconds)
}
