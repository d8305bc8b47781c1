package ports

import (
	"context"
	"time"

	"github.com/fractary/forge/internal/core/domain"
)

// RemoteSource is one configured remote registry.
//
//go:generate go run go.uber.org/mock/mockgen -source=remote.go -destination=mocks/mock_remote.go -package=mocks
type RemoteSource interface {
	// Name returns the configured source name.
	Name() string

	// Timeout returns the per-fetch timeout of the source.
	Timeout() time.Duration

	// TTL returns how long lookups from this source stay cached.
	TTL() time.Duration

	// Lookup returns every advertised version of name that may satisfy constraint.
	// An unlisted name yields an empty slice, not an error.
	Lookup(ctx context.Context, name, constraint string) ([]domain.RemotePackage, error)

	// Fetch downloads the definition body of one package version.
	Fetch(ctx context.Context, pkg domain.RemotePackage) ([]byte, error)

	// List returns every package the source advertises.
	List(ctx context.Context) ([]domain.RemotePackage, error)
}

// RemoteSourceFactory builds remote sources from configuration.
type RemoteSourceFactory interface {
	// New builds the source for cfg. manifests may be nil to disable the disk cache.
	New(cfg domain.RegistrySource, defaultTimeout time.Duration, manifests ManifestCache) (RemoteSource, error)
}
