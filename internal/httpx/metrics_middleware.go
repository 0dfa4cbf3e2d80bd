package httpx

import (
	"net/http"
	"time"

	"bookshelf/internal/platform/metrics"
)

// MetricsMiddleware records request counts and latency by route pattern.
// The mux sets the pattern on the request it receives, so no middleware
// between this one and the mux may replace the request. Requests rejected
// before routing are counted as "unmatched".
func MetricsMiddleware(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrapResponseWriter(w)

			next.ServeHTTP(rw, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
		})
	}
}
