package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dukerupert/presswork/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so clients can map errors to inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, v)
}

// DecodeJSON reads a JSON request body into dst and runs its validate tags.
// Malformed bodies and tag failures come back as domain.ValidationError.
func DecodeJSON(r *http.Request, op string, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return domain.Errorf(domain.ETOOLARGE, op, "Request body exceeds %d bytes", maxErr.Limit)
		case errors.Is(err, io.EOF):
			return domain.NewValidationError(op, "body", "Request body is required")
		default:
			return domain.NewValidationError(op, "body", "Request body is not valid JSON")
		}
	}
	return Validate(op, dst)
}

// Validate runs struct validation tags on v.
func Validate(op string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return domain.Internal(err, op, "validation failed")
	}
	return &domain.ValidationError{Op: op, Fields: FormatValidationErrors(errs)}
}

// FormatValidationErrors turns validator output into field messages keyed by
// the JSON path of each failing field.
func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	messages := make(map[string]string, len(errs))
	for _, err := range errs {
		field := fieldPath(err.Namespace())
		switch err.Tag() {
		case "required":
			messages[field] = "required"
		case "min", "gte":
			messages[field] = fmt.Sprintf("must be at least %s", err.Param())
		case "max", "lte":
			messages[field] = fmt.Sprintf("must be at most %s", err.Param())
		case "uuid":
			messages[field] = "must be a valid id"
		default:
			messages[field] = fmt.Sprintf("failed %s check", err.Tag())
		}
	}
	return messages
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
