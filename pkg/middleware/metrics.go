package middleware

import (
	"net/http"
	"time"

	"github.com/vfg2006/sales-prediction-dashboard/pkg/metrics"
)

// MetricsMiddleware conta requisições por método e status e mede a latência
func MetricsMiddleware(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if reg == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			lrw := newLoggingResponseWriter(w)

			next.ServeHTTP(lrw, r)

			reg.ObserveHTTP(r.Method, lrw.statusCode, time.Since(startTime))
		})
	}
}
