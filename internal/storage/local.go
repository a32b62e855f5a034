package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// LocalStorage implements Storage on the local filesystem, for development
// and single-node deployments.
type LocalStorage struct {
	basePath string
	baseURL  string
}

// NewLocalStorage creates basePath if needed. baseURL is the URL prefix the
// static file server mounts basePath under.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, wrapInternal("failed to create storage directory", err)
	}
	return &LocalStorage{basePath: basePath, baseURL: baseURL}, nil
}

func (s *LocalStorage) path(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, filepath.FromSlash(cleaned)), nil
}

// Put writes to a temp file and renames it so readers never see a partial file.
func (s *LocalStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", wrapInternal("failed to create directory", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(fullPath), ".upload-*")
	if err != nil {
		return "", wrapInternal("failed to create file", err)
	}
	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", wrapInternal("failed to write file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", wrapInternal("failed to close file", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		os.Remove(tmp.Name())
		return "", wrapInternal("failed to move file into place", err)
	}

	return s.URL(key), nil
}

func (s *LocalStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrFileNotFound(key)
		}
		return nil, wrapInternal("failed to open file", err)
	}
	return file, nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	fullPath, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return wrapInternal("failed to delete file", err)
	}
	return nil
}

func (s *LocalStorage) URL(key string) string {
	return path.Join(s.baseURL, key)
}

func (s *LocalStorage) Exists(ctx context.Context, key string) (bool, error) {
	fullPath, err := s.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, wrapInternal("failed to check file existence", err)
	}
	return true, nil
}
