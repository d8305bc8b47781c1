package ports

import (
	"context"

	"github.com/fractary/forge/internal/core/domain"
)

// ArtifactResolver resolves artifact identifiers across the Local, Global and Remote tiers.
//
//go:generate go run go.uber.org/mock/mockgen -source=resolver.go -destination=mocks/mock_resolver.go -package=mocks
type ArtifactResolver interface {
	// Resolve returns the first tier match for a name[@constraint] identifier.
	Resolve(ctx context.Context, kind domain.Kind, identifier string) (*domain.ResolvedArtifact, error)

	// ResolveLatest returns the newest version of name across the Global and Remote
	// tiers, unless the project overrides it locally.
	ResolveLatest(ctx context.Context, kind domain.Kind, name string) (*domain.ResolvedArtifact, error)

	// FetchRemote downloads an exact version from the remote tier into the global store.
	// registry selects the source to try first; every other source is tried after it.
	// A non-empty integrity rejects bodies with another digest before they are stored.
	FetchRemote(ctx context.Context, kind domain.Kind, name, version, registry, integrity string) (*domain.ResolvedArtifact, error)
}
