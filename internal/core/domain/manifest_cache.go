package domain

import "time"

// ManifestCacheEntry is a remote index document persisted between runs.
type ManifestCacheEntry struct {
	SourceName string        `json:"sourceName"`
	URL        string        `json:"url"`
	FetchedAt  time.Time     `json:"fetchedAt"`
	TTL        time.Duration `json:"ttl"`
	// Fingerprint is a fast hash of Body used to reject torn or edited cache files.
	Fingerprint string `json:"fingerprint"`
	Body        []byte `json:"body"`
}

// Expired reports whether now is past the entry's lifetime.
func (e *ManifestCacheEntry) Expired(now time.Time) bool {
	return now.Sub(e.FetchedAt) > e.TTL
}
