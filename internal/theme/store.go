package theme

import (
	"context"
	"fmt"
	"sync"
)

// MemoryStore keeps preferences for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

// Store drivers accepted by OpenStore.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// OpenStore returns the store for driver. The returned close function is
// always non-nil.
func OpenStore(driver, path string) (Store, func() error, error) {
	noop := func() error { return nil }
	switch driver {
	case DriverMemory:
		return NewMemoryStore(), noop, nil
	case DriverFile, "":
		return NewFileStore(path), noop, nil
	case DriverSQLite:
		s, err := OpenSQLiteStore(path)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unsupported theme store driver: %s", driver)
	}
}
