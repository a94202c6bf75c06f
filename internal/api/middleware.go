package api

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"silhouette/internal/logging"
	"silhouette/internal/services"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with a correlation id and logs it on completion.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)
			ctx := services.WithRequestID(r.Context(), requestID)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			level := slog.LevelDebug
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelWarn
			}
			logging.WithContext(ctx, logger).Log(ctx, level, "request",
				logging.Args(
					logging.String("method", r.Method),
					logging.String("path", r.URL.Path),
					logging.Int("status", rec.status),
					logging.Int64("duration_ms", time.Since(start).Milliseconds()),
					logging.String("remote_addr", r.RemoteAddr),
				)...,
			)
		})
	}
}

// recoverer converts handler panics into 500 responses.
func recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logging.WithContext(r.Context(), logger).Error("panic recovered",
						logging.Any("panic", rec),
						logging.String("stack", string(debug.Stack())),
						logging.String("method", r.Method),
						logging.String("path", r.URL.Path),
						logging.String(logging.FieldEventType, "api_panic"),
					)
					writeError(w, logger, http.StatusInternalServerError, "internal error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
