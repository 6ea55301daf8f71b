package kv

import (
	"context"
	"sync"

	"github.com/vsinha/metalerp/pkg/domain/repositories"
)

// MemoryStore provides in-memory document storage
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

// NewMemoryStore creates a new in-memory blob store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Verify interface compliance
var _ repositories.BlobStore = (*MemoryStore)(nil)

// Save overwrites the document stored under key
func (s *MemoryStore) Save(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return repositories.ErrStoreClosed
	}
	s.data[key] = value
	return nil
}

// Load returns the document stored under key
func (s *MemoryStore) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, repositories.ErrStoreClosed
	}
	v, ok := s.data[key]
	return v, ok, nil
}

// Close marks the store unusable
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
