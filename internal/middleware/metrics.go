package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/relayvision/visionlog/internal/metrics"
)

type routeKey struct{}

// route is filled in by MatchRoute once the mux has picked a pattern.
type route struct {
	pattern string
}

// Metrics records request counts and latency per route pattern, so that
// /api/thoughts/{id} is one series instead of one per ID.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rt := &route{}
		rw := wrap(w)

		next.ServeHTTP(rw, r.WithContext(context.WithValue(r.Context(), routeKey{}, rt)))

		pattern := rt.pattern
		if pattern == "" {
			pattern = "unmatched"
		}
		m := metrics.Get()
		m.HTTPRequestsTotal.WithLabelValues(r.Method, pattern, strconv.Itoa(rw.statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

// MatchRoute wraps the mux and reports the matched pattern back to Metrics.
func MatchRoute(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rt, ok := r.Context().Value(routeKey{}).(*route); ok {
			_, rt.pattern = mux.Handler(r)
		}
		mux.ServeHTTP(w, r)
	})
}
