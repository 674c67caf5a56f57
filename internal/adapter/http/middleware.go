package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/couchcryptid/vaccination-dashboard/internal/observability"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags each request with an id, then logs and times it.
// Probe and metrics traffic is logged at debug level.
func requestLogger(next http.Handler, logger *slog.Logger, metrics *observability.Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, reqID)

		m := httpsnoop.CaptureMetrics(next, w, r)

		// ServeMux records the matched pattern on the request.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.WithLabelValues(route, strconv.Itoa(m.Code)).Observe(m.Duration.Seconds())

		level := slog.LevelInfo
		switch r.URL.Path {
		case "/healthz", "/readyz", "/metrics":
			level = slog.LevelDebug
		}
		logger.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", m.Code,
			"bytes", m.Written,
			"duration", m.Duration,
			"request_id", reqID,
		)
	})
}
