// Package storage provides the persistent key-value port backing every
// repository, together with a JSON record-collection layer on top of it.
//
// The port mirrors the browser-origin storage contract the platform's web
// client was written against: one string value per key, no transactions, no
// expiry. A SQLite adapter provides durability on the server; an in-memory
// adapter serves as the test double.
package storage

import "sync"

// KeyValue is the injected storage port. Get returns ok=false when the key is
// absent. Set overwrites unconditionally (last writer wins).
type KeyValue interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// MemoryStore is a map-backed KeyValue implementation.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewMemoryStore constructs an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]string)}
}

// Get returns the value stored at key.
func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

// Set stores value under key, replacing any previous value.
func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	return nil
}

// Remove deletes the key. Removing an absent key is not an error.
func (s *MemoryStore) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
