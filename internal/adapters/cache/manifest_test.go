package cache_test

import (
	"os"
	"testing"
	"time"

	"github.com/fractary/forge/internal/adapters/cache"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifestCache_PutGet(t *testing.T) {
	c := cache.NewManifestCache(t.TempDir())
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return now })

	entry := &domain.ManifestCacheEntry{
		SourceName: "hub",
		URL:        "https://example.com/index.json",
		FetchedAt:  now,
		TTL:        time.Hour,
		Body:       []byte(`{"packages":[]}`),
	}
	require.NoError(t, c.Put("hub:https://example.com/index.json", entry))

	got, err := c.Get("hub:https://example.com/index.json")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entry.Body, got.Body)
	assert.NotEmpty(t, got.Fingerprint)

	miss, err := c.Get("other")
	require.NoError(t, err)
	assert.Nil(t, miss)
}

func TestManifestCache_ExpiresLazily(t *testing.T) {
	c := cache.NewManifestCache(t.TempDir())
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return now })

	require.NoError(t, c.Put("k", &domain.ManifestCacheEntry{FetchedAt: now, TTL: time.Minute, Body: []byte("x")}))
	_, err := os.Stat(c.PathFor("k"))
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	got, err := c.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = os.Stat(c.PathFor("k"))
	assert.True(t, os.IsNotExist(err), "expired entry is removed on read")
}

func TestManifestCache_RejectsTornFile(t *testing.T) {
	c := cache.NewManifestCache(t.TempDir())
	require.NoError(t, c.Put("k", &domain.ManifestCacheEntry{FetchedAt: time.Now(), TTL: time.Hour, Body: []byte("original")}))

	data, err := os.ReadFile(c.PathFor("k"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(c.PathFor("k"), data[:len(data)/2], domain.PrivateFilePerm))

	got, err := c.Get("k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestManifestCache_Clean(t *testing.T) {
	c := cache.NewManifestCache(t.TempDir())
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return now })

	require.NoError(t, c.Put("fresh", &domain.ManifestCacheEntry{FetchedAt: now, TTL: time.Hour, Body: []byte("a")}))
	require.NoError(t, c.Put("stale", &domain.ManifestCacheEntry{FetchedAt: now.Add(-2 * time.Hour), TTL: time.Hour, Body: []byte("b")}))

	removed, err := c.Clean(false)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = c.Clean(true)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	empty := cache.NewManifestCache(t.TempDir() + "/missing")
	removed, err = empty.Clean(true)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
