package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/commercekit/amazonpay-gateway/internal/monitor"
)

// Metrics records request counts and latency. The registered route
// pattern is used as the path label to keep cardinality bounded.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := r.Pattern
			if path == "" {
				path = "unmatched"
			}
			monitor.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			monitor.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
