// Package middleware carries the HTTP middleware shared by all routes.
package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey int

const requestIDKey ctxKey = iota

// Recorder receives per-request metrics. Implemented by metrics.Registry.
type Recorder interface {
	RecordHTTPRequest(path string, status int, durationMS float64)
}

// RequestIDFromContext returns the correlation ID assigned by
// RequestContext, or an empty string outside a request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// statusWriter captures the status code written by downstream handlers.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestContext assigns every request a UUID correlation ID (exposed via the
// context and the X-Request-ID response header), records request metrics, and
// writes a structured access log. The webhook route is excluded from the
// access log because its handler emits a richer per-ingestion record.
func RequestContext(logger *zap.Logger, metrics Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := uuid.NewString()
			ctx := context.WithValue(r.Context(), requestIDKey, requestID)

			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			sw.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(sw, r.WithContext(ctx))

			latencyMS := float64(time.Since(start)) / float64(time.Millisecond)

			if metrics != nil {
				metrics.RecordHTTPRequest(r.URL.Path, sw.status, latencyMS)
			}

			if logger != nil && r.URL.Path != "/webhook" {
				logger.Info("request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", sw.status),
					zap.Float64("latency_ms", latencyMS),
					zap.String("request_id", requestID),
				)
			}
		})
	}
}
