package cache

import "time"

// SetClock replaces the time source of the manifest cache.
func (c *ManifestCache) SetClock(now func() time.Time) {
	c.now = now
}

// PathFor exposes the on-disk location of a key.
func (c *ManifestCache) PathFor(key string) string {
	return c.path(key)
}
