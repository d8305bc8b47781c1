package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// LocalMismatchPolicy decides what happens when a local override fails an explicit constraint.
type LocalMismatchPolicy string

const (
	// LocalMismatchFail rejects the resolution with ErrLocalConstraintMismatch.
	LocalMismatchFail LocalMismatchPolicy = "fail"
	// LocalMismatchFallthrough ignores the local copy and continues with Global and Remote.
	LocalMismatchFallthrough LocalMismatchPolicy = "fallthrough"
	// LocalMismatchWarn logs a warning and still returns the local copy.
	LocalMismatchWarn LocalMismatchPolicy = "warn"
)

// Settings is the explicit configuration handed to the engine.
type Settings struct {
	// ProjectRoot is set by the loader, never read from files.
	ProjectRoot string             `koanf:"-" yaml:"-"`
	GlobalRoot  string             `koanf:"global_root" yaml:"global_root,omitempty"`
	Registries  []RegistrySource   `koanf:"registries" yaml:"registries,omitempty"`
	Cache       CacheSettings      `koanf:"cache" yaml:"cache,omitempty"`
	Resolution  ResolutionSettings `koanf:"resolution" yaml:"resolution,omitempty"`
	Log         LogSettings        `koanf:"log" yaml:"log,omitempty"`
}

// CacheSettings configures the response and manifest caches.
type CacheSettings struct {
	Enabled bool `koanf:"enabled" yaml:"enabled"`
	// TTL is the default TTL in seconds for sources without their own.
	TTL     int `koanf:"ttl" yaml:"ttl,omitempty"`
	MaxSize int `koanf:"max_size" yaml:"max_size,omitempty"`
}

// ResolutionSettings configures the resolver.
type ResolutionSettings struct {
	LocalMismatch LocalMismatchPolicy `koanf:"local_mismatch" yaml:"local_mismatch,omitempty"`
	Concurrency   int                 `koanf:"concurrency" yaml:"concurrency,omitempty"`
	// Timeout is the default remote fetch timeout in seconds.
	Timeout int  `koanf:"timeout" yaml:"timeout,omitempty"`
	Offline bool `koanf:"offline" yaml:"offline,omitempty"`
}

// LogSettings configures the logger.
type LogSettings struct {
	Level  string `koanf:"level" yaml:"level,omitempty"`
	Format string `koanf:"format" yaml:"format,omitempty"`
}

// FetchTimeout returns the default remote fetch timeout.
func (r ResolutionSettings) FetchTimeout() time.Duration {
	if r.Timeout > 0 {
		return time.Duration(r.Timeout) * time.Second
	}
	return DefaultTimeout
}

// Validate checks cross-field invariants of the settings.
func (s *Settings) Validate() error {
	switch s.Resolution.LocalMismatch {
	case "", LocalMismatchFail, LocalMismatchFallthrough, LocalMismatchWarn:
	default:
		return zerr.With(ErrConfigInvalid, "local_mismatch", string(s.Resolution.LocalMismatch))
	}
	seen := make(map[string]struct{}, len(s.Registries))
	for _, src := range s.Registries {
		if err := src.Validate(); err != nil {
			return err
		}
		if _, dup := seen[src.Name]; dup {
			return zerr.With(ErrDuplicateRegistrySource, "name", src.Name)
		}
		seen[src.Name] = struct{}{}
	}
	return nil
}
