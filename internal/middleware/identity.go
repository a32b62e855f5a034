package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dukerupert/presswork/internal/domain"
)

type contextKey string

// UserIDHeader carries the caller's user id, set by the auth gateway in
// front of this service.
const UserIDHeader = "X-User-ID"

// Identity reads UserIDHeader into the request context. A missing header
// leaves the request anonymous; a malformed one is rejected with 401.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := uuid.Parse(raw)
		if err != nil || userID == uuid.Nil {
			respondWithError(w, r, domain.Unauthorized("identity.parse", "Invalid user identity"))
			return
		}

		ctx := domain.NewContextWithUserID(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects anonymous requests. Place it after Identity.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := domain.UserIDFromContext(r.Context()); !ok {
			respondUnauthorized(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
