package ports

import "github.com/fractary/forge/internal/core/domain"

// IntegrityHasher defines the interface for content digests.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type IntegrityHasher interface {
	// Digest returns the canonical digest of a definition, independent of key order
	// and formatting.
	Digest(def *domain.Definition) (string, error)

	// Verify checks raw bytes against an "algorithm:hex" checksum.
	Verify(data []byte, checksum string) error
}
