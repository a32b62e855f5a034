package middleware

import (
	"net/http"
	"time"
)

// Common size limits
const (
	KB = 1024
	MB = 1024 * KB

	// JSONMaxBodySize caps API request bodies other than uploads.
	JSONMaxBodySize = 1 * MB
)

// MaxBodySize rejects declared bodies over limit with 413 and caps the
// reader for undeclared ones.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				respondTooLarge(w, r, limit)
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// DefaultTimeout is the default request timeout.
const DefaultTimeout = 30 * time.Second

// Timeout aborts handlers that run longer than d with a 503 JSON body.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		d = DefaultTimeout
	}
	body := `{"error":{"code":"unavailable","message":"Request timed out"}}`
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, d, body)
	}
}
