package ratelimit

import (
	"log/slog"
	"net/http"
	"strconv"

	"govern/pkg/platform/httputil"
	"govern/pkg/platform/middleware/metadata"
)

// Middleware limits requests per client IP using the supplied limiter.
// Rate limit headers are set on every response, allowed or not.
func Middleware(limiter *SlidingWindow, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := metadata.GetClientIP(r.Context())
			if ip == "" {
				ip = r.RemoteAddr
			}

			result := limiter.Allow(ip)
			addHeaders(w, result)

			if !result.Allowed {
				logger.WarnContext(r.Context(), "rate limit exceeded",
					"path", r.URL.Path,
					"retry_after", result.RetryAfter,
				)
				writeExceeded(w, result)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func addHeaders(w http.ResponseWriter, result Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}

func writeExceeded(w http.ResponseWriter, result Result) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate_limit_exceeded",
		"message":     "Too many requests from this address. Please try again later.",
		"retry_after": result.RetryAfter,
	})
}
