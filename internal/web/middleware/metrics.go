package middleware

import (
	"net/http"
	"time"
)

// HTTPObserver records one finished request.
type HTTPObserver interface {
	ObserveHTTP(route, method string, status int, elapsed time.Duration)
}

// Metrics reports every request to obs, labelled by the matched route
// pattern so path parameters do not explode label cardinality.
func Metrics(obs HTTPObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := wrapResponseWriter(w)

			next.ServeHTTP(ww, r)

			obs.ObserveHTTP(routePattern(r), r.Method, ww.status, time.Since(start))
		})
	}
}
