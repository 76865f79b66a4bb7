package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	documentapp "github.com/MAsTer0103-byte/eqb-platform/internal/application/document"
)

// Ensure StubObjectStorage implements ObjectStorage
var _ documentapp.ObjectStorage = (*StubObjectStorage)(nil)

// StubObjectStorage is an in-memory ObjectStorage for development and tests.
// It is used when storage is disabled in configuration.
type StubObjectStorage struct {
	// BaseURL is prepended to generated URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubObjectStorage creates a new stub storage
func NewStubObjectStorage(baseURL string) *StubObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:9000/stub-bucket"
	}
	return &StubObjectStorage{
		BaseURL: baseURL,
		objects: make(map[string][]byte),
	}
}

func (s *StubObjectStorage) Upload(_ context.Context, storageKey string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[storageKey] = buf
	return nil
}

func (s *StubObjectStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	url := fmt.Sprintf("%s/%s?X-Stub-Signature=download", s.BaseURL, storageKey)
	return url, time.Now().Add(expiresIn), nil
}

func (s *StubObjectStorage) DeleteObject(_ context.Context, storageKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, storageKey)
	return nil
}

func (s *StubObjectStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[storageKey]
	return ok, nil
}

// Object returns the stored bytes for a key. Test helper.
func (s *StubObjectStorage) Object(storageKey string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[storageKey]
	return data, ok
}
