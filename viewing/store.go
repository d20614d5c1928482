package viewing

import (
	"errors"
	"sync"
)

// ErrKeyNotFound indicates a viewing key was not found in the store.
var ErrKeyNotFound = errors.New("viewing key not found")

// Store persists viewing keys. Implementations must be safe for
// concurrent use; the manager layers its own serialization for
// generate/revoke races on the same derivation path.
type Store interface {
	// Put inserts or replaces a key by ID.
	Put(key *ViewingKey) error

	// Get retrieves a key by ID.
	Get(id string) (*ViewingKey, error)

	// GetByPath retrieves a key by derivation path.
	GetByPath(path string) (*ViewingKey, error)

	// ListByAccount returns every key scoped to an account.
	ListByAccount(account string) ([]*ViewingKey, error)

	// Delete removes a key by ID.
	Delete(id string) error
}

// MemoryStore implements Store with an in-process map. Suitable for
// tests and single-process deployments; swap in a persistent Store for
// anything else.
type MemoryStore struct {
	mu     sync.RWMutex
	keys   map[string]*ViewingKey // by ID
	byPath map[string]string      // derivation path -> ID
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		keys:   make(map[string]*ViewingKey),
		byPath: make(map[string]string),
	}
}

// Put inserts or replaces a key by ID.
func (s *MemoryStore) Put(key *ViewingKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[key.ID] = key.Clone()
	s.byPath[key.DerivationPath] = key.ID
	return nil
}

// Get retrieves a key by ID.
func (s *MemoryStore) Get(id string) (*ViewingKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[id]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return key.Clone(), nil
}

// GetByPath retrieves a key by derivation path.
func (s *MemoryStore) GetByPath(path string) (*ViewingKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byPath[path]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return s.keys[id].Clone(), nil
}

// ListByAccount returns every key scoped to an account.
func (s *MemoryStore) ListByAccount(account string) ([]*ViewingKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*ViewingKey
	for _, key := range s.keys {
		if key.Account == account {
			out = append(out, key.Clone())
		}
	}
	return out, nil
}

// Delete removes a key by ID.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.keys[id]
	if !ok {
		return ErrKeyNotFound
	}
	delete(s.byPath, key.DerivationPath)
	delete(s.keys, id)
	return nil
}
