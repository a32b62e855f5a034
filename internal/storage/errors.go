package storage

import "fmt"

// These constants mirror domain error codes to avoid circular imports.
const (
	codeInternal = "internal"
	codeInvalid  = "invalid"
	codeNotFound = "not_found"
)

// StorageError represents a storage-specific error with a code and message.
type StorageError struct {
	Code    string
	Message string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the error code for HTTP status mapping.
func (e *StorageError) ErrorCode() string {
	return e.Code
}

var (
	ErrR2AccountIDRequired   = &StorageError{Code: codeInvalid, Message: "R2 account ID is required"}
	ErrR2CredentialsRequired = &StorageError{Code: codeInvalid, Message: "R2 credentials are required"}
	ErrR2BucketRequired      = &StorageError{Code: codeInvalid, Message: "R2 bucket name is required"}
)

// ErrFileNotFound creates an error for when a file is not found.
func ErrFileNotFound(key string) error {
	return &StorageError{Code: codeNotFound, Message: fmt.Sprintf("file not found: %s", key)}
}

// ErrUnknownProvider creates an error for unknown storage providers.
func ErrUnknownProvider(provider string) error {
	return &StorageError{Code: codeInvalid, Message: fmt.Sprintf("unknown storage provider: %s", provider)}
}

// ErrInvalidKey rejects empty keys and keys that climb out of the root.
func ErrInvalidKey(key string) error {
	return &StorageError{Code: codeInvalid, Message: fmt.Sprintf("invalid storage key: %q", key)}
}

func wrapInternal(message string, err error) error {
	return &StorageError{Code: codeInternal, Message: message, Err: err}
}
