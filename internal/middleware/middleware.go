package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/presswork/internal/domain"
)

// ============================================================================
// MIDDLEWARE ERROR RESPONSE HELPERS
// ============================================================================
//
// These mirror handler.ErrorResponse but live here to avoid an import cycle
// (handler imports middleware for GetLogger).

// respondWithError logs err and writes the JSON error envelope.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	message := domain.ErrorMessage(err)
	status := errorCodeToHTTPStatus(code)

	logger := GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"status", status,
	}
	if status >= 500 {
		logger.Error("middleware error", attrs...)
	} else {
		logger.Info("middleware error", attrs...)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func respondUnauthorized(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.EUNAUTHORIZED, "", "User identity required"))
}

func respondTooManyRequests(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, domain.Errorf(domain.ERATELIMIT, "", "Too many requests, slow down"))
}

func respondTooLarge(w http.ResponseWriter, r *http.Request, limit int64) {
	respondWithError(w, r, domain.Errorf(domain.ETOOLARGE, "", "Request body exceeds %d bytes", limit))
}

// errorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func errorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest // 400
	case domain.EUNAUTHORIZED:
		return http.StatusUnauthorized // 401
	case domain.EFORBIDDEN:
		return http.StatusForbidden // 403
	case domain.ENOTFOUND:
		return http.StatusNotFound // 404
	case domain.ECONFLICT:
		return http.StatusConflict // 409
	case domain.ETOOLARGE:
		return http.StatusRequestEntityTooLarge // 413
	case domain.ERATELIMIT:
		return http.StatusTooManyRequests // 429
	case domain.EUNAVAILABLE:
		return http.StatusServiceUnavailable // 503
	default:
		return http.StatusInternalServerError // 500
	}
}
