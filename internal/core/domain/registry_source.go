package domain

import (
	"net/url"
	"path/filepath"
	"sort"
	"time"

	"go.trai.ch/zerr"
)

// SourceKind is the protocol of a remote registry.
type SourceKind string

const (
	// SourceKindManifest fetches a single JSON manifest listing all packages.
	SourceKindManifest SourceKind = "manifest"
	// SourceKindAPI queries a registry HTTP API per lookup.
	SourceKindAPI SourceKind = "api"
)

// Default per-kind cache TTLs, used when a source does not set its own.
const (
	DefaultManifestTTL = time.Hour
	DefaultAPITTL      = 5 * time.Minute
	DefaultTimeout     = 30 * time.Second
)

// RegistrySource is a user-configured remote registry.
type RegistrySource struct {
	Name    string     `koanf:"name" yaml:"name"`
	Kind    SourceKind `koanf:"kind" yaml:"kind"`
	URL     string     `koanf:"url" yaml:"url"`
	Enabled bool       `koanf:"enabled" yaml:"enabled"`
	// Priority orders sources; lower values are consulted first.
	Priority int `koanf:"priority" yaml:"priority"`
	// CacheTTL is in seconds; zero selects the kind default.
	CacheTTL int `koanf:"cache_ttl" yaml:"cache_ttl,omitempty"`
	// Timeout is the per-fetch timeout in seconds; zero selects the global default.
	Timeout int `koanf:"timeout" yaml:"timeout,omitempty"`
}

// TTL returns the effective response cache TTL of the source.
func (s RegistrySource) TTL() time.Duration {
	if s.CacheTTL > 0 {
		return time.Duration(s.CacheTTL) * time.Second
	}
	if s.Kind == SourceKindAPI {
		return DefaultAPITTL
	}
	return DefaultManifestTTL
}

// FetchTimeout returns the per-fetch timeout, falling back to def.
func (s RegistrySource) FetchTimeout(def time.Duration) time.Duration {
	if s.Timeout > 0 {
		return time.Duration(s.Timeout) * time.Second
	}
	if def > 0 {
		return def
	}
	return DefaultTimeout
}

// Validate checks the source configuration.
func (s RegistrySource) Validate() error {
	if err := ValidateName(s.Name); err != nil {
		return zerr.With(ErrInvalidRegistrySource, "name", s.Name)
	}
	switch s.Kind {
	case SourceKindManifest, SourceKindAPI:
	default:
		err := zerr.With(ErrInvalidRegistrySource, "name", s.Name)
		return zerr.With(err, "kind", string(s.Kind))
	}
	if filepath.IsAbs(s.URL) {
		return nil
	}
	u, err := url.Parse(s.URL)
	if err != nil || s.URL == "" {
		err := zerr.With(ErrInvalidRegistrySource, "name", s.Name)
		return zerr.With(err, "url", s.URL)
	}
	switch u.Scheme {
	case "http", "https", "file":
	default:
		err := zerr.With(ErrInvalidRegistrySource, "name", s.Name)
		return zerr.With(err, "url", s.URL)
	}
	return nil
}

// ActiveSources returns the enabled sources sorted by ascending priority,
// ties broken by name so the order is deterministic.
func ActiveSources(sources []RegistrySource) []RegistrySource {
	out := make([]RegistrySource, 0, len(sources))
	for _, s := range sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// RemotePackage is one package version advertised by a remote source.
type RemotePackage struct {
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Kind         Kind     `json:"kind,omitempty"`
	Description  string   `json:"description,omitempty"`
	Source       string   `json:"source"`
	Checksum     string   `json:"checksum,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
	// Inline carries the definition body when the source returns it directly.
	Inline map[string]any `json:"definition,omitempty"`
}

// Matches reports whether the package applies to the given kind. Packages without a kind
// match every kind.
func (p RemotePackage) Matches(kind Kind) bool {
	return p.Kind == "" || p.Kind == kind
}
