package cache

import (
	// Registers sha256 for go-digest.
	_ "crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	forgefs "github.com/fractary/forge/internal/adapters/fs"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"
)

var _ ports.ManifestCache = (*ManifestCache)(nil)

// ManifestCache implements ports.ManifestCache with one JSON file per key.
type ManifestCache struct {
	dir string
	now func() time.Time
}

// NewManifestCache creates a cache storing entries in dir.
func NewManifestCache(dir string) *ManifestCache {
	return &ManifestCache{dir: filepath.Clean(dir), now: time.Now}
}

// Get returns the entry stored under key.
// Returns nil, nil on a miss, on expiry, or when the file is unreadable.
func (c *ManifestCache) Get(key string) (*domain.ManifestCacheEntry, error) {
	path := c.path(key)
	entry, err := c.read(path)
	if err != nil {
		return nil, err
	}
	if entry == nil || entry.Expired(c.now()) {
		_ = os.Remove(path)
		return nil, nil
	}
	return entry, nil
}

// Put atomically stores an entry.
func (c *ManifestCache) Put(key string, entry *domain.ManifestCacheEntry) error {
	stored := *entry
	stored.Fingerprint = fingerprint(entry.Body)

	data, err := json.Marshal(&stored)
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheWrite.Error())
	}

	path := c.path(key)
	if err := forgefs.WriteFileAtomic(path, data, domain.PrivateFilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWrite.Error()), "path", path)
	}
	return nil
}

// Clean removes expired or unreadable entries, or every entry when all is set.
func (c *ManifestCache) Clean(all bool) (int, error) {
	files, err := os.ReadDir(c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", c.dir)
	}

	removed := 0
	now := c.now()
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
			continue
		}
		path := filepath.Join(c.dir, f.Name())
		if !all {
			entry, err := c.read(path)
			if err != nil {
				return removed, err
			}
			if entry != nil && !entry.Expired(now) {
				continue
			}
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, zerr.With(zerr.Wrap(err, domain.ErrCacheWrite.Error()), "path", path)
		}
		removed++
	}
	return removed, nil
}

// read decodes the entry at path. Missing, corrupt and torn files yield nil, nil.
func (c *ManifestCache) read(path string) (*domain.ManifestCacheEntry, error) {
	//nolint:gosec // Path is derived from a digest of the key
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreRead.Error()), "path", path)
	}

	var entry domain.ManifestCacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil
	}
	if entry.Fingerprint != fingerprint(entry.Body) {
		return nil, nil
	}
	return &entry, nil
}

func (c *ManifestCache) path(key string) string {
	return filepath.Join(c.dir, digest.Canonical.FromString(key).Encoded()+".json")
}

func fingerprint(body []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(body))
}
