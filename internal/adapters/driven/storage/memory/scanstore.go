package memory

import (
	"context"
	"sync"
	"time"

	"github.com/handeliew/hugin/internal/core/ports/driven"
)

// Ensure ScanStore implements the interface.
var _ driven.ScanStore = (*ScanStore)(nil)

// ScanStore is an in-memory implementation of driven.ScanStore.
type ScanStore struct {
	mu        sync.RWMutex
	processed map[string]time.Time
}

// NewScanStore creates a new in-memory scan store.
func NewScanStore() *ScanStore {
	return &ScanStore{processed: make(map[string]time.Time)}
}

// IsProcessed reports whether the path was marked processed.
func (s *ScanStore) IsProcessed(_ context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.processed[path]
	return ok, nil
}

// MarkProcessed records the path as processed.
func (s *ScanStore) MarkProcessed(_ context.Context, path string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed[path] = at
	return nil
}
