package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"

	"github.com/ruziwatakundanashe/reelgen/internal/reel"
)

//go:embed web/index.html
var webFS embed.FS

const (
	pageTitle   = "📱 Facebook Reel Generator"
	pageTagline = "Create engaging animated reels for Facebook with just a few clicks!"
)

var (
	pageOnce sync.Once
	pageTmpl *template.Template
	pageErr  error
)

type pageData struct {
	Title     string
	Tagline   string
	Version   string
	Modes     []reel.ModeSpec
	TipsTitle string
	Tips      template.HTML
}

func loadPage() (*template.Template, error) {
	pageOnce.Do(func() {
		pageTmpl, pageErr = template.ParseFS(webFS, "web/index.html")
	})
	return pageTmpl, pageErr
}

// TipsHTML renders the reel tips markdown.
func TipsHTML() (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(reel.Tips), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func indexHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tmpl, err := loadPage()
		if err != nil {
			cfg.Logger.Error("failed to parse page template", "error", err)
			WriteError(w, http.StatusInternalServerError, "page unavailable", "INTERNAL_ERROR")
			return
		}
		tips, err := TipsHTML()
		if err != nil {
			cfg.Logger.Warn("failed to render tips", "error", err)
		}

		var buf bytes.Buffer
		err = tmpl.Execute(&buf, pageData{
			Title:     pageTitle,
			Tagline:   pageTagline,
			Version:   cfg.Version,
			Modes:     reel.Modes(),
			TipsTitle: reel.TipsTitle,
			Tips:      tips,
		})
		if err != nil {
			cfg.Logger.Error("failed to render page", "error", err)
			WriteError(w, http.StatusInternalServerError, "page unavailable", "INTERNAL_ERROR")
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w)
	}
}
