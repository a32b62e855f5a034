package handler

import (
	"encoding/json"
	"net/http"

	"github.com/dukerupert/presswork/internal/domain"
	"github.com/dukerupert/presswork/internal/middleware"
	"github.com/dukerupert/presswork/internal/telemetry"
)

// errorBody is the JSON envelope every failed API call returns.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorResponse logs err with the request-scoped logger and writes the JSON
// error envelope. Validation errors are rendered with their field map.
// Internal errors are reported to Sentry and their details hidden.
func ErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	if domain.IsValidationError(err) {
		ValidationErrorResponse(w, r, err)
		return
	}

	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	attrs := []any{
		"error", err.Error(),
		"code", code,
		"op", domain.ErrorOp(err),
		"status", status,
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", attrs...)
		userID := ""
		if id, ok := domain.UserIDFromContext(r.Context()); ok {
			userID = id.String()
		}
		telemetry.CaptureError(err, userID, map[string]interface{}{
			"path":       r.URL.Path,
			"method":     r.Method,
			"request_id": middleware.GetRequestID(r.Context()),
		})
	} else {
		logger.Info("request rejected", attrs...)
	}

	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:    code,
		Message: domain.ErrorMessage(err),
	}})
}

// ValidationErrorResponse writes a 400 with per-field messages. Anything that
// is not a ValidationError falls through to ErrorResponse.
func ValidationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	fields := domain.GetValidationFields(err)
	if fields == nil {
		ErrorResponse(w, r, err)
		return
	}

	middleware.GetLogger(r.Context()).Info("validation failed",
		"error", err.Error(),
		"fields", len(fields),
	)

	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    domain.EINVALID,
		Message: "Please check the highlighted fields",
		Fields:  fields,
	}})
}

// NotFoundResponse is used for unmatched API routes.
func NotFoundResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.Errorf(domain.ENOTFOUND, "", "Resource not found"))
}

// UnauthorizedResponse is written when a route needs a caller identity.
func UnauthorizedResponse(w http.ResponseWriter, r *http.Request) {
	ErrorResponse(w, r, domain.ErrUserRequired)
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
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

// writeJSON encodes v as the response body. Encoding failures after the
// header is written can only be logged by the caller's access log.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
