package storage

import (
	"fmt"
	"sync"
)

// BackendType names a registered storage backend.
type BackendType string

const (
	// MemoryBackend is the in-memory implementation, used by tests and dry runs.
	MemoryBackend BackendType = "memdb"
	// SQLiteBackend is the persistent implementation.
	SQLiteBackend BackendType = "sqlite"
)

// Constructor creates a new Storage instance from backend-specific parameters.
type Constructor func(params map[string]any) (Storage, error)

var (
	registryMu sync.RWMutex
	backends   = make(map[BackendType]Constructor)
)

// Register adds a backend implementation to the registry. Registering the same
// type twice is an error.
func Register(bt BackendType, constructor Constructor) error {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := backends[bt]; exists {
		return fmt.Errorf("storage backend %s already registered", bt)
	}
	backends[bt] = constructor
	return nil
}

// Open creates a new store of the given backend type. An empty type selects
// the in-memory backend.
func Open(bt BackendType, params map[string]any) (Storage, error) {
	if bt == "" {
		bt = MemoryBackend
	}

	registryMu.RLock()
	constructor, exists := backends[bt]
	registryMu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("storage backend %s not found", bt)
	}
	return constructor(params)
}

// ListRegistered returns all registered backend types.
func ListRegistered() []BackendType {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]BackendType, 0, len(backends))
	for bt := range backends {
		out = append(out, bt)
	}
	return out
}
