package iocache

import (
	"database/sql"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

// MockCacheStore is an in-memory store for testing.
type MockCacheStore struct {
	entries map[string]mockEntry
}

type mockEntry struct {
	value     []byte
	version   int
	timestamp int64
}

var _ contract.CacheStore = (*MockCacheStore)(nil) // Compile-time check

// NewMockCacheStore returns an empty in-memory store.
func NewMockCacheStore() *MockCacheStore {
	return &MockCacheStore{entries: make(map[string]mockEntry)}
}

// Get retrieves a value by key, reporting sql.ErrNoRows on a miss to match
// the database-backed store.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	entry, ok := m.entries[key]
	if !ok {
		return nil, 0, 0, sql.ErrNoRows
	}
	return entry.value, entry.version, entry.timestamp, nil
}

// Set stores a key/value pair.
func (m *MockCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	m.entries[key] = mockEntry{value: value, version: version, timestamp: timestamp}
	return nil
}

// Clear removes all entries.
func (m *MockCacheStore) Clear() error {
	m.entries = make(map[string]mockEntry)
	return nil
}

// GetStatus reports the entry count.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Backend: "mock", Entries: int64(len(m.entries))}, nil
}

// Close is a no-op.
func (m *MockCacheStore) Close() error { return nil }

// MockCacheManager wraps a mock store for tests.
type MockCacheManager struct {
	Store contract.CacheStore
}

var _ contract.CacheManager = (*MockCacheManager)(nil) // Compile-time check

// GetActivityStore returns the wrapped store.
func (m *MockCacheManager) GetActivityStore() contract.CacheStore {
	return m.Store
}

// Close is a no-op.
func (m *MockCacheManager) Close() error { return nil }
