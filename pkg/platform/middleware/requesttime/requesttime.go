// Package requesttime pins a single "now" to each request context.
// Handlers, audit events, and compliance evaluations that run within one
// request all observe the same timestamp instead of calling time.Now
// at slightly different instants.
package requesttime

import (
	"net/http"
	"time"

	"govern/pkg/requestcontext"
)

// Middleware stamps the request context with the arrival time.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
