package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
)

var _ ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage keeps objects in memory. It backs local development
// and tests where no S3-compatible endpoint is available.
type StubObjectStorage struct {
	// BaseURL prefixes the URLs handed back by Upload and PublicURL.
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Upload stores the object in memory and returns its public URL
func (s *StubObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}

	s.mu.Lock()
	s.objects[key] = append([]byte(nil), data...)
	s.mu.Unlock()

	return s.PublicURL(key), nil
}

// Delete removes the object; absent keys are not an error
func (s *StubObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	delete(s.objects, key)
	s.mu.Unlock()
	return nil
}

// Exists reports whether the object was uploaded
func (s *StubObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	return ok, nil
}

// PublicURL returns the URL the object would be served from
func (s *StubObjectStorage) PublicURL(key string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(key, "/")
}

// Get returns a stored object's bytes, for test assertions.
func (s *StubObjectStorage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()
	return data, ok
}
