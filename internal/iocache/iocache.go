// Package iocache caches fetched repository activity between runs.
// Qualitative analysis results are never stored here; only the raw fetched
// payloads, so escalation always runs fresh.
package iocache

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mergerisk/mergerisk/internal/contract"
	"github.com/mergerisk/mergerisk/schema"
)

// activityTable is the name of the table for activity caching.
const activityTable = "activity_cache"

// StoreManager wires the activity cache store into the core flow.
type StoreManager struct {
	activity contract.CacheStore
}

var _ contract.CacheManager = (*StoreManager)(nil) // Compile-time check

// InitStores initializes the cache manager for the configured backend.
// The none backend yields a manager whose store ignores writes and misses
// every read, so callers never branch on caching being enabled.
func InitStores(backend schema.CacheBackend, connStr string) (*StoreManager, error) {
	store, err := NewCacheStore(activityTable, backend, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize activity cache: %w", err)
	}
	return &StoreManager{activity: store}, nil
}

// GetActivityStore returns the activity cache store.
func (m *StoreManager) GetActivityStore() contract.CacheStore {
	return m.activity
}

// Close closes the underlying store.
func (m *StoreManager) Close() error {
	if m.activity != nil {
		return m.activity.Close()
	}
	return nil
}

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".mergerisk_cache.db"
	}
	return filepath.Join(homeDir, ".mergerisk_cache.db")
}
