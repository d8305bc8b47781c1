package domain

import "path/filepath"

const (
	// FractaryDirName is the name of the project metadata directory.
	FractaryDirName = ".fractary"

	// RegistryDirName is the name of the versioned registry inside the global root.
	RegistryDirName = "registry"

	// CacheDirName is the name of the cache directory inside the global root.
	CacheDirName = "cache"

	// ManifestCacheDirName is the name of the on-disk manifest cache directory.
	ManifestCacheDirName = "manifests"

	// PluginDirName holds the forge plugin directory relative to .fractary.
	PluginDirName = "plugins/forge"

	// LockfileName is the name of the lockfile.
	LockfileName = "lockfile.json"

	// ConfigFileName is the name of the forge configuration file.
	ConfigFileName = "config.yaml"

	// ForkRecordFileName is the sidecar holding a fork's provenance.
	ForkRecordFileName = ".fork.json"

	// ForkBaseFileName is the sidecar holding the fork-point snapshot.
	ForkBaseFileName = ".fork-base.yaml"

	// ForkIndexFileName lists the forks made from an artifact.
	ForkIndexFileName = "forks.json"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// LocalKindDir returns the directory holding local artifacts of a kind.
// It joins projectRoot, .fractary and the plural kind.
func LocalKindDir(projectRoot string, kind Kind) string {
	return filepath.Join(projectRoot, FractaryDirName, kind.Plural())
}

// LocalArtifactDir returns the directory of a single local artifact.
func LocalArtifactDir(projectRoot string, kind Kind, name string) string {
	return filepath.Join(LocalKindDir(projectRoot, kind), filepath.FromSlash(name))
}

// LocalDefinitionPath returns the path of a local definition file,
// e.g. .fractary/agents/my-agent/agent.yaml.
func LocalDefinitionPath(projectRoot string, kind Kind, name string) string {
	return filepath.Join(LocalArtifactDir(projectRoot, kind, name), kind.FileName())
}

// GlobalKindDir returns the directory holding cached versions of a kind.
// It joins globalRoot, registry and the plural kind.
func GlobalKindDir(globalRoot string, kind Kind) string {
	return filepath.Join(globalRoot, RegistryDirName, kind.Plural())
}

// GlobalArtifactDir returns the directory of one cached version, keyed by name@version.
func GlobalArtifactDir(globalRoot string, kind Kind, name, version string) string {
	return filepath.Join(GlobalKindDir(globalRoot, kind), filepath.FromSlash(name)+"@"+version)
}

// GlobalDefinitionPath returns the path of a cached definition file.
func GlobalDefinitionPath(globalRoot string, kind Kind, name, version string) string {
	return filepath.Join(GlobalArtifactDir(globalRoot, kind, name, version), kind.FileName())
}

// ManifestCacheDir returns the on-disk manifest cache directory.
func ManifestCacheDir(globalRoot string) string {
	return filepath.Join(globalRoot, CacheDirName, ManifestCacheDirName)
}

// PluginDir returns the forge plugin directory of a project.
func PluginDir(projectRoot string) string {
	return filepath.Join(projectRoot, FractaryDirName, filepath.FromSlash(PluginDirName))
}

// LockfilePath returns the lockfile location of a project.
func LockfilePath(projectRoot string) string {
	return filepath.Join(PluginDir(projectRoot), LockfileName)
}

// ProjectConfigPath returns the project configuration file.
func ProjectConfigPath(projectRoot string) string {
	return filepath.Join(PluginDir(projectRoot), ConfigFileName)
}

// UserConfigPath returns the user configuration file inside the global root.
func UserConfigPath(globalRoot string) string {
	return filepath.Join(globalRoot, ConfigFileName)
}
