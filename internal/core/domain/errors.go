package domain

import "go.trai.ch/zerr"

var (
	// ErrEmptyIdentifier is returned when an identifier is empty.
	ErrEmptyIdentifier = zerr.New("identifier is empty")

	// ErrInvalidName is returned when an artifact name contains invalid characters.
	ErrInvalidName = zerr.New("invalid artifact name")

	// ErrInvalidKind is returned when an artifact kind is neither agent nor tool.
	ErrInvalidKind = zerr.New("invalid artifact kind, expected 'agent' or 'tool'")

	// ErrInvalidVersion is returned when a version is not a valid semantic version.
	ErrInvalidVersion = zerr.New("invalid semantic version")

	// ErrInvalidConstraint is returned when a version range cannot be parsed.
	ErrInvalidConstraint = zerr.New("invalid version constraint")

	// ErrMissingVersion is returned when a definition has no version.
	ErrMissingVersion = zerr.New("definition has no version")

	// ErrDefinitionInvalid is returned when a definition document fails validation.
	ErrDefinitionInvalid = zerr.New("invalid definition")

	// ErrDefinitionParse is returned when a definition document cannot be decoded.
	ErrDefinitionParse = zerr.New("failed to parse definition")

	// ErrDefinitionEncode is returned when a definition cannot be serialized.
	ErrDefinitionEncode = zerr.New("failed to encode definition")

	// ErrNotFound is returned when no tier produced the requested artifact.
	ErrNotFound = zerr.New("artifact not found")

	// ErrLocalConstraintMismatch is returned when a local override fails an explicit constraint.
	ErrLocalConstraintMismatch = zerr.New("local artifact does not satisfy the requested constraint")

	// ErrRemoteUnavailable is returned when every remote source failed to respond.
	ErrRemoteUnavailable = zerr.New("remote registries unavailable")

	// ErrChecksumMismatch is returned when a downloaded body does not match its advertised checksum.
	ErrChecksumMismatch = zerr.New("downloaded artifact checksum mismatch")

	// ErrIntegrityMismatch is returned when a recomputed digest differs from the pinned one.
	ErrIntegrityMismatch = zerr.New("integrity mismatch")

	// ErrCacheMiss is returned when a locked global/remote artifact is not installed.
	ErrCacheMiss = zerr.New("artifact not installed in the global cache, run 'forge install'")

	// ErrMissingArtifact is returned when a locked artifact no longer exists.
	ErrMissingArtifact = zerr.New("locked artifact is missing")

	// ErrCircularDependency is returned when a dependency or inheritance chain loops.
	ErrCircularDependency = zerr.New("circular dependency")

	// ErrMissingDependency is returned when a graph edge points to an unknown node.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrVersionConflict is returned when two dependents require incompatible versions.
	ErrVersionConflict = zerr.New("conflicting version requirements")

	// ErrMergeConflict is returned when an upstream merge has unresolved conflicts.
	ErrMergeConflict = zerr.New("merge has unresolved conflicts")

	// ErrNotAFork is returned when an upstream operation targets a definition without fork record.
	ErrNotAFork = zerr.New("artifact is not a fork")

	// ErrForkTargetExists is returned when a fork would overwrite an existing local artifact.
	ErrForkTargetExists = zerr.New("fork target already exists")

	// ErrForkBaseMissing is returned when the fork-point snapshot cannot be found.
	ErrForkBaseMissing = zerr.New("fork-point snapshot is missing")

	// ErrLockfileNotFound is returned when a project has no lockfile.
	ErrLockfileNotFound = zerr.New("lockfile not found, run 'forge lock'")

	// ErrLockfileRead is returned when the lockfile cannot be read.
	ErrLockfileRead = zerr.New("failed to read lockfile")

	// ErrLockfileParse is returned when the lockfile cannot be decoded.
	ErrLockfileParse = zerr.New("failed to parse lockfile")

	// ErrLockfileWrite is returned when the lockfile cannot be written.
	ErrLockfileWrite = zerr.New("failed to write lockfile")

	// ErrLockfileInvalid is returned when a lockfile violates its invariants.
	ErrLockfileInvalid = zerr.New("invalid lockfile")

	// ErrLockfileUnsupported is returned when the lockfile format version is unknown.
	ErrLockfileUnsupported = zerr.New("unsupported lockfile format version")

	// ErrLockfileStale is returned when local artifacts changed since the lockfile was generated.
	ErrLockfileStale = zerr.New("lockfile is out of date, run 'forge lock --force'")

	// ErrStoreRead is returned when a store cannot be read.
	ErrStoreRead = zerr.New("failed to read store")

	// ErrStoreWrite is returned when a store cannot be written.
	ErrStoreWrite = zerr.New("failed to write store")

	// ErrManifestFetch is returned when a remote manifest or body cannot be fetched.
	ErrManifestFetch = zerr.New("failed to fetch from registry")

	// ErrManifestParse is returned when a remote response cannot be decoded.
	ErrManifestParse = zerr.New("failed to parse registry response")

	// ErrUnsupportedSourceKind is returned for registry kinds without an implementation.
	ErrUnsupportedSourceKind = zerr.New("unsupported registry source kind")

	// ErrInvalidRegistrySource is returned when a registry source configuration is invalid.
	ErrInvalidRegistrySource = zerr.New("invalid registry source")

	// ErrDuplicateRegistrySource is returned when two registry sources share a name.
	ErrDuplicateRegistrySource = zerr.New("duplicate registry source")

	// ErrRegistrySourceNotFound is returned when a registry source does not exist.
	ErrRegistrySourceNotFound = zerr.New("registry source not found")

	// ErrConfigRead is returned when a config file cannot be read.
	ErrConfigRead = zerr.New("failed to read config file")

	// ErrConfigParse is returned when configuration cannot be decoded.
	ErrConfigParse = zerr.New("failed to parse config")

	// ErrConfigInvalid is returned when configuration values are inconsistent.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrConfigWrite is returned when the config file cannot be written.
	ErrConfigWrite = zerr.New("failed to write config file")

	// ErrCacheWrite is returned when the on-disk manifest cache cannot be written.
	ErrCacheWrite = zerr.New("failed to write manifest cache")
)
