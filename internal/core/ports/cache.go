package ports

import (
	"time"

	"github.com/fractary/forge/internal/core/domain"
)

// ResponseCache is an in-process TTL cache of remote lookups.
//
//go:generate go run go.uber.org/mock/mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ResponseCache interface {
	// Get returns the value stored under key. Expired entries are deleted and reported
	// as a miss.
	Get(key string) (any, bool)

	// Set stores value under key until ttl elapses.
	Set(key string, value any, ttl time.Duration)

	// Delete removes key.
	Delete(key string)

	// Cleanup removes every expired entry and returns how many were dropped.
	Cleanup() int

	// Len returns the number of stored entries, expired ones included.
	Len() int
}

// ManifestCache persists remote index documents on disk.
type ManifestCache interface {
	// Get returns the entry stored under key.
	// Returns nil, nil on a miss, on expiry, or when the file is unreadable.
	Get(key string) (*domain.ManifestCacheEntry, error)

	// Put atomically stores an entry.
	Put(key string, entry *domain.ManifestCacheEntry) error

	// Clean removes expired entries, or every entry when all is set.
	Clean(all bool) (int, error)
}
