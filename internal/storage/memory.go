package storage

import (
	"bytes"
	"context"
	"io"
	"path"
	"sync"
)

// MemoryStorage keeps objects in process memory. Selected with
// STORAGE_PROVIDER=memory for throwaway environments.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	baseURL string
}

func NewMemoryStorage(baseURL string) *MemoryStorage {
	return &MemoryStorage{objects: map[string][]byte{}, baseURL: baseURL}
}

func (s *MemoryStorage) Put(ctx context.Context, key string, content io.Reader, contentType string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(content)
	if err != nil {
		return "", wrapInternal("failed to read upload", err)
	}
	s.mu.Lock()
	s.objects[cleaned] = b
	s.mu.Unlock()
	return s.URL(cleaned), nil
}

func (s *MemoryStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	b, ok := s.objects[cleaned]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrFileNotFound(key)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *MemoryStorage) Delete(ctx context.Context, key string) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.objects, cleaned)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStorage) URL(key string) string {
	return path.Join(s.baseURL, key)
}

func (s *MemoryStorage) Exists(ctx context.Context, key string) (bool, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return false, err
	}
	s.mu.RLock()
	_, ok := s.objects[cleaned]
	s.mu.RUnlock()
	return ok, nil
}
