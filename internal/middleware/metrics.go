package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gdg-garage/flight-booking-api/internal/logging"
	"github.com/gdg-garage/flight-booking-api/internal/metrics"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Metrics records request count, latency and in-flight gauges keyed by the
// chi route pattern, then logs the request.
func Metrics(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			// the pattern is only complete once routing has run
			pattern := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			duration := time.Since(start)

			reg.HTTPRequestsTotal.WithLabelValues(pattern, r.Method, strconv.Itoa(status)).Inc()
			reg.HTTPRequestDuration.WithLabelValues(pattern, r.Method).Observe(duration.Seconds())

			logging.WithRequest(chimw.GetReqID(r.Context()), r.Method, pattern).Infow("HTTP request completed",
				"status_code", status,
				"duration_ms", duration.Milliseconds(),
			)
		})
	}
}

// InFlight tracks concurrently served requests per path.
func InFlight(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			g := reg.HTTPRequestsInFlight.WithLabelValues(r.URL.Path)
			g.Inc()
			defer g.Dec()
			next.ServeHTTP(w, r)
		})
	}
}
