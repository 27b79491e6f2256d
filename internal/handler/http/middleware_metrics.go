package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

const unmatchedRoute = "unmatched"

// routePattern returns the chi pattern r was routed to. It is only complete
// once the router has handled r.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return unmatchedRoute
}

// withSpanName renames the active OpenTelemetry span after the matched
// route, e.g. "GET /api/recipes/{id}".
func withSpanName(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		span := trace.SpanFromContext(r.Context())
		if span.IsRecording() {
			span.SetName(r.Method + " " + routePattern(r))
		}
	})
}

// withMetrics records request counts and latencies labelled by the chi
// route pattern, so /api/recipes/1 and /api/recipes/2 share one series.
func (h *Handler) withMetrics(next http.Handler) http.Handler {
	if h.metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		mw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(mw, r)

		h.metrics.ObserveHTTPRequest(r.Method, routePattern(r), strconv.Itoa(mw.Status()), time.Since(start))
	})
}
