package middleware

import (
	"net/http"

	"sa-fashion-be/internal/logger"
	"sa-fashion-be/internal/metrics"
)

// Metrics records request count and latency per route pattern. Requests
// that match no route are labelled "unmatched" to bound cardinality.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			timer := metrics.StartTimer()
			rec := logger.NewStatusRecorder(w)

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}
			m.ObserveRequest(route, r.Method, rec.Status, timer.Duration())
		})
	}
}
