package api

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"silhouette/internal/export"
	"silhouette/internal/jobs"
	"silhouette/internal/logging"
	"silhouette/internal/services"
)

type handlers struct {
	svc    *JobService
	logger *slog.Logger
	now    func() time.Time
}

// NewRouter builds the HTTP handler serving the read-only job API.
func NewRouter(store JobReader, logger *slog.Logger) http.Handler {
	logger = logging.NewComponentLogger(logger, "api")
	h := &handlers{svc: NewJobService(store), logger: logger, now: time.Now}

	r := chi.NewRouter()
	r.Use(requestLogger(logger), recoverer(logger))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, logger, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, logger, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/stats", h.stats)
		r.Get("/export", h.archive)
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.list)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.describe)
				r.Get("/svg", h.vector)
				r.Get("/cleaned", h.cleaned)
			})
		})
	})
	return r
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, "list jobs", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, JobListResponse{Items: items})
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.fail(w, r, "stats", err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, StatsResponse{Counts: stats})
}

func (h *handlers) describe(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, JobResponse{Item: job.Summary()})
}

func (h *handlers) vector(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if job.Status != jobs.StatusCompleted || job.Vector == nil {
		writeError(w, h.logger, http.StatusNotFound, "svg not available")
		return
	}
	w.Header().Set("Content-Disposition", `inline; filename="`+export.EntryName(*job)+`"`)
	writeBlob(w, "image/svg+xml", job.Vector)
}

func (h *handlers) cleaned(w http.ResponseWriter, r *http.Request) {
	job, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if job.Cleaned == nil {
		writeError(w, h.logger, http.StatusNotFound, "cleaned image not available")
		return
	}
	writeBlob(w, "image/png", job.Cleaned)
}

func (h *handlers) archive(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	count, err := h.svc.WriteArchive(r.Context(), &buf)
	if err != nil {
		if errors.Is(err, services.ErrNothingToExport) {
			writeError(w, h.logger, http.StatusNotFound, "nothing to export")
			return
		}
		h.fail(w, r, "export", err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.ArchiveName(h.now())+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Entry-Count", strconv.Itoa(count))
	writeBlob(w, "application/zip", buf.Bytes())
}

func (h *handlers) lookup(w http.ResponseWriter, r *http.Request) (*jobs.Job, bool) {
	id := chi.URLParam(r, "id")
	job, err := h.svc.Describe(r.Context(), id)
	if err != nil {
		h.fail(w, r, "get job", err)
		return nil, false
	}
	if job == nil {
		writeError(w, h.logger, http.StatusNotFound, "job not found")
		return nil, false
	}
	return job, true
}

func (h *handlers) fail(w http.ResponseWriter, r *http.Request, operation string, err error) {
	details := services.Details(err)
	logging.WithContext(r.Context(), h.logger).Error("api request failed",
		logging.String(logging.FieldErrorOperation, operation),
		logging.String(logging.FieldErrorKind, details.Kind),
		logging.Error(err),
	)
	writeError(w, h.logger, statusForError(err), err.Error())
}
