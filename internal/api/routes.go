package api

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ruziwatakundanashe/reelgen/internal/intake"
	"github.com/ruziwatakundanashe/reelgen/internal/playback"
	"github.com/ruziwatakundanashe/reelgen/internal/reel"
	"github.com/ruziwatakundanashe/reelgen/internal/studio"
)

// Uploaded parts beyond this are spooled to temp files by net/http.
const multipartMemory = 32 << 20

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))

	r.Get("/", indexHandler(cfg))
	r.Get("/health", healthHandler(cfg))
	r.Get("/status", statusHandler(cfg))
	r.Get("/templates", templatesHandler(cfg))
	r.Get("/renders", listRendersHandler(cfg))
	r.Get("/renders/{id}", getRenderHandler(cfg))

	r.Route("/reels/{mode}", func(r chi.Router) {
		r.With(
			RateLimitMiddleware(cfg.Limiter, cfg.Logger),
			MaxBodyMiddleware(cfg.MaxUploadBytes),
		).Post("/", generateHandler(cfg))

		r.Get("/video", previewHandler(cfg))
		r.Head("/video", previewHandler(cfg))
		r.Get("/download", downloadHandler(cfg))
	})

	return r
}

func healthHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uptime := int64(time.Since(cfg.StartTime).Seconds())
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Version: cfg.Version,
			UptimeS: uptime,
		})
	}
}

func statusHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := StateToResponse(cfg.Studio.State())

		if cfg.Doctor != nil {
			caps, err := cfg.Doctor.Get(r.Context())
			if err == nil && caps != nil {
				resp.FFmpeg = CapabilitiesToResponse(caps)
			}
		}

		WriteJSON(w, http.StatusOK, resp)
	}
}

func templatesHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		modes := reel.Modes()
		resp := TemplatesResponse{Templates: make([]TemplateResponse, len(modes))}
		for i, m := range modes {
			resp.Templates[i] = TemplateResponse{
				ModeSpec:    m,
				PreviewURL:  previewURL(m.Mode),
				DownloadURL: downloadURL(m.Mode),
			}
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func generateHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, err := reel.Lookup(chi.URLParam(r, "mode"))
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		form, err := readForm(r)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				WriteError(w, http.StatusRequestEntityTooLarge, "upload exceeds the size limit", "PAYLOAD_TOO_LARGE")
				return
			}
			WriteError(w, http.StatusBadRequest, "invalid form: "+err.Error(), "BAD_REQUEST")
			return
		}
		if form != nil && form.File != nil {
			defer form.RemoveAll()
		}

		sub, err := intake.FromMultipart(spec, form)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), "BAD_REQUEST")
			return
		}

		outcome, err := cfg.Studio.Generate(r.Context(), sub)
		if err != nil {
			var rf *studio.RenderFault
			if errors.As(err, &rf) {
				WriteError(w, http.StatusInternalServerError, rf.Banner(), "RENDER_FAULT")
				return
			}
			cfg.Logger.Error("render request failed", "mode", spec.Mode, "error", err)
			WriteError(w, http.StatusInternalServerError, "An error occurred: "+err.Error(), "INTERNAL_ERROR")
			return
		}
		if outcome == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		WriteJSON(w, http.StatusOK, OutcomeToResponse(outcome))
	}
}

// readForm accepts multipart bodies and, for text-only templates, plain
// urlencoded ones.
func readForm(r *http.Request) (*multipart.Form, error) {
	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return &multipart.Form{Value: r.PostForm}, nil
	}
	if err != nil {
		return nil, err
	}
	return r.MultipartForm, nil
}

func previewHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, err := reel.Lookup(chi.URLParam(r, "mode"))
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
			return
		}
		err = cfg.Presenter.ServePreview(w, r, cfg.Studio.OutputPath(spec.Mode))
		writeServeError(cfg, w, spec, err)
	}
}

func downloadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec, err := reel.Lookup(chi.URLParam(r, "mode"))
		if err != nil {
			WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
			return
		}
		err = cfg.Presenter.ServeDownload(w, r, cfg.Studio.OutputPath(spec.Mode), spec.DownloadName)
		writeServeError(cfg, w, spec, err)
	}
}

func writeServeError(cfg ServerConfig, w http.ResponseWriter, spec reel.ModeSpec, err error) {
	switch {
	case err == nil:
	case errors.Is(err, playback.ErrNoArtifact):
		WriteError(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	default:
		cfg.Logger.Error("playback error", "error", err, "mode", spec.Mode)
		WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
	}
}

func listRendersHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.Renders == nil {
			WriteJSON(w, http.StatusOK, RendersResponse{Renders: []RenderResponse{}})
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer", "BAD_REQUEST")
				return
			}
			limit = n
		}

		renders, err := cfg.Renders.ListRenders(r.Context(), limit)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "failed to list renders", "INTERNAL_ERROR")
			return
		}

		resp := RendersResponse{Renders: make([]RenderResponse, len(renders))}
		for i, rd := range renders {
			resp.Renders[i] = RenderToResponse(rd)
		}
		WriteJSON(w, http.StatusOK, resp)
	}
}

func getRenderHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			WriteError(w, http.StatusBadRequest, "render id required", "BAD_REQUEST")
			return
		}
		if cfg.Renders == nil {
			WriteError(w, http.StatusNotFound, "render not found", "NOT_FOUND")
			return
		}

		rd, err := cfg.Renders.GetRender(r.Context(), id)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, err.Error(), "INTERNAL_ERROR")
			return
		}
		if rd == nil {
			WriteError(w, http.StatusNotFound, "render not found", "NOT_FOUND")
			return
		}

		WriteJSON(w, http.StatusOK, RenderToResponse(rd))
	}
}
