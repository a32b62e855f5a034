package storage

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/dukerupert/presswork/internal"
)

// Storage defines the interface for design file and product image storage.
type Storage interface {
	// Put stores content under key and returns its public URL.
	Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error)

	// Get returns the object body; the caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL for key without checking that it exists.
	URL(key string) string

	// Exists probes for key with a HEAD-style request.
	Exists(ctx context.Context, key string) (bool, error)
}

// NewStorage creates a Storage implementation based on configuration.
func NewStorage(cfg internal.StorageConfig) (Storage, error) {
	switch cfg.Provider {
	case "local", "":
		return NewLocalStorage(cfg.LocalPath, cfg.LocalURL)
	case "memory":
		return NewMemoryStorage(cfg.LocalURL), nil
	case "r2":
		return NewR2Storage(R2Config{
			AccountID:   cfg.R2AccountID,
			AccessKeyID: cfg.R2AccessKeyID,
			SecretKey:   cfg.R2SecretKey,
			BucketName:  cfg.R2BucketName,
			PublicURL:   cfg.R2PublicURL,
		})
	default:
		return nil, ErrUnknownProvider(cfg.Provider)
	}
}

// ResolveURL returns the public URL for key when the object exists and
// fallback otherwise. Probe failures are logged and also yield fallback.
func ResolveURL(ctx context.Context, s Storage, key, fallback string) string {
	if key == "" {
		return fallback
	}
	ok, err := s.Exists(ctx, key)
	if err != nil {
		slog.Default().WarnContext(ctx, "storage existence probe failed", "key", key, "error", err)
		return fallback
	}
	if !ok {
		return fallback
	}
	return s.URL(key)
}

// DesignKey builds the object key for an uploaded design file.
func DesignKey(userID, fileID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return path.Join("designs", userID, fileID+ext)
}

// cleanKey normalises key and rejects anything escaping the storage root.
func cleanKey(key string) (string, error) {
	cleaned := path.Clean("/" + key)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "" || cleaned == "." || strings.Contains(key, "..") {
		return "", ErrInvalidKey(key)
	}
	return cleaned, nil
}
