// Package config loads engine settings and edits registry sources.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.trai.ch/zerr"
)

var _ ports.ConfigLoader = (*Loader)(nil)

const (
	envPrefix = "FORGE_"
	// envRemoteURL replaces the URL of the default registry source.
	envRemoteURL = envPrefix + "REGISTRY_REMOTE_URL"

	// DefaultRegistryName is the name of the built-in registry source.
	DefaultRegistryName = "fractary"
	// DefaultRegistryURL is the URL of the built-in registry source.
	DefaultRegistryURL = "https://registry.fractary.com"
)

// envKeys maps supported environment variables to configuration keys.
var envKeys = map[string]string{
	"FORGE_GLOBAL_ROOT":    "global_root",
	"FORGE_CACHE_ENABLED":  "cache.enabled",
	"FORGE_CACHE_TTL":      "cache.ttl",
	"FORGE_LOG_LEVEL":      "log.level",
	"FORGE_LOG_FORMAT":     "log.format",
	"FORGE_LOCAL_MISMATCH": "resolution.local_mismatch",
	"FORGE_CONCURRENCY":    "resolution.concurrency",
	"FORGE_TIMEOUT":        "resolution.timeout",
	"FORGE_OFFLINE":        "resolution.offline",
}

// Loader implements ports.ConfigLoader with layered koanf sources: defaults, the user
// file, the project file, then FORGE_* environment variables.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// DiscoverRoot walks up from cwd to the directory containing .fractary.
// The user's home directory is skipped since its .fractary is the global root.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrConfigRead.Error()), "cwd", cwd)
	}
	home, _ := os.UserHomeDir()

	for dir := abs; ; {
		if dir != home {
			if info, err := os.Stat(filepath.Join(dir, domain.FractaryDirName)); err == nil && info.IsDir() {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// Load merges defaults, the user file, the project file and the environment.
func (l *Loader) Load(projectRoot string) (*domain.Settings, error) {
	k := koanf.New(".")
	for key, val := range defaults() {
		if err := k.Set(key, val); err != nil {
			return nil, zerr.Wrap(err, domain.ErrConfigParse.Error())
		}
	}

	globalRoot := k.String("global_root")
	if v := os.Getenv(envPrefix + "GLOBAL_ROOT"); v != "" {
		globalRoot = v
	}

	for _, path := range []string{domain.UserConfigPath(globalRoot), domain.ProjectConfigPath(projectRoot)} {
		loaded, err := loadFile(k, path)
		if err != nil {
			return nil, err
		}
		if loaded {
			l.Logger.Debug("loaded configuration from " + path)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return envKeys[s]
	}), nil); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParse.Error())
	}

	var settings domain.Settings
	if err := k.Unmarshal("", &settings); err != nil {
		return nil, zerr.Wrap(err, domain.ErrConfigParse.Error())
	}

	// Sources that omit "enabled" are on.
	for i, rk := range k.Slices("registries") {
		if i < len(settings.Registries) && !rk.Exists("enabled") {
			settings.Registries[i].Enabled = true
		}
	}
	if url := os.Getenv(envRemoteURL); url != "" {
		for i := range settings.Registries {
			if settings.Registries[i].Name == DefaultRegistryName {
				settings.Registries[i].URL = url
			}
		}
	}

	settings.ProjectRoot = projectRoot
	if !filepath.IsAbs(settings.GlobalRoot) {
		settings.GlobalRoot = filepath.Join(projectRoot, settings.GlobalRoot)
	}
	if settings.Resolution.Concurrency < 1 {
		settings.Resolution.Concurrency = 1
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func loadFile(k *koanf.Koanf, path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, zerr.With(zerr.Wrap(err, domain.ErrConfigRead.Error()), "path", path)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrConfigParse.Error()), "path", path)
	}
	return true, nil
}

func defaults() map[string]any {
	globalRoot := domain.FractaryDirName
	if home, err := os.UserHomeDir(); err == nil {
		globalRoot = filepath.Join(home, domain.FractaryDirName)
	}

	return map[string]any{
		"global_root":               globalRoot,
		"cache.enabled":             true,
		"cache.ttl":                 int(domain.DefaultManifestTTL.Seconds()),
		"cache.max_size":            1000,
		"resolution.local_mismatch": string(domain.LocalMismatchFail),
		"resolution.concurrency":    runtime.NumCPU(),
		"resolution.timeout":        int(domain.DefaultTimeout.Seconds()),
		"resolution.offline":        false,
		"log.level":                 "info",
		"log.format":                "pretty",
		"registries": []any{map[string]any{
			"name":     DefaultRegistryName,
			"kind":     string(domain.SourceKindAPI),
			"url":      DefaultRegistryURL,
			"enabled":  true,
			"priority": 100,
		}},
	}
}
