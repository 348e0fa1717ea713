// Package admin gates administration endpoints behind a shared token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"govern/pkg/platform/httputil"
	"govern/pkg/platform/middleware/request"
)

// HeaderAdminToken carries the shared administration secret.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken rejects requests whose token header does not match.
// The comparison is constant-time so response timing leaks nothing about
// partial matches.
func RequireAdminToken(expected string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(HeaderAdminToken)
			if subtle.ConstantTimeCompare([]byte(got), []byte(expected)) == 1 {
				next.ServeHTTP(w, r)
				return
			}

			logger.WarnContext(r.Context(), "admin token mismatch",
				"request_id", request.GetRequestID(r.Context()),
				"path", r.URL.Path,
			)
			httputil.WriteJSON(w, http.StatusUnauthorized, map[string]string{
				"error":             "unauthorized",
				"error_description": "admin token required",
			})
		})
	}
}
