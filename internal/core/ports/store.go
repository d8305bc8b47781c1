package ports

import "github.com/fractary/forge/internal/core/domain"

// LocalStore reads and writes project-local artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type LocalStore interface {
	// Names lists the artifacts of a kind present in the project, sorted.
	Names(kind domain.Kind) ([]string, error)

	// Load reads a local artifact, attaching its fork record when one exists.
	// Returns nil, nil if not found.
	Load(kind domain.Kind, name string) (*domain.ResolvedArtifact, error)

	// Write stores a definition document and returns its path.
	Write(kind domain.Kind, name string, data []byte) (string, error)

	// Remove deletes an artifact together with its sidecars.
	Remove(kind domain.Kind, name string) error

	// ReadFork returns the fork record and fork-point snapshot of a local artifact.
	// Returns nil, nil, nil if the artifact is not a fork.
	ReadFork(kind domain.Kind, name string) (*domain.ForkRecord, []byte, error)

	// WriteFork stores the fork record and, when base is non-nil, the fork-point snapshot.
	WriteFork(kind domain.Kind, name string, rec *domain.ForkRecord, base []byte) error

	// RecordFork appends fork to the fork index of a local artifact.
	RecordFork(kind domain.Kind, name string, fork domain.Ref) error
}

// GlobalStore reads and writes versioned artifacts in the per-user cache.
type GlobalStore interface {
	// Names lists every cached artifact name of a kind, sorted.
	Names(kind domain.Kind) ([]string, error)

	// Versions lists the cached versions of an artifact.
	Versions(kind domain.Kind, name string) ([]string, error)

	// Load reads one cached version.
	// Returns nil, nil if not found.
	Load(kind domain.Kind, name, version string) (*domain.ResolvedArtifact, error)

	// Put atomically stores one version and returns its path.
	Put(kind domain.Kind, name, version string, data []byte) (string, error)

	// Remove deletes one cached version. Removing a missing version is not an error.
	Remove(kind domain.Kind, name, version string) error

	// RecordFork appends fork to the fork index of a cached version.
	RecordFork(kind domain.Kind, name, version string, fork domain.Ref) error
}

// LockfileStore persists lockfiles.
type LockfileStore interface {
	// Read loads the lockfile at path and returns it with its raw bytes.
	// Returns nil, nil, nil if the file does not exist.
	Read(path string) (*domain.Lockfile, []byte, error)

	// Write atomically replaces the lockfile at path.
	Write(path string, lf *domain.Lockfile) error
}
