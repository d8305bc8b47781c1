package ports

import "github.com/fractary/forge/internal/core/domain"

// ConfigLoader defines the interface for loading engine settings.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// DiscoverRoot walks up from cwd to the directory containing .fractary.
	// It returns cwd itself when no ancestor has one.
	DiscoverRoot(cwd string) (string, error)

	// Load merges defaults, the user file, the project file and the environment.
	Load(projectRoot string) (*domain.Settings, error)
}

// RegistryConfig rewrites the registry section of a configuration file.
type RegistryConfig interface {
	// ReadRegistries returns the sources declared in the file at path.
	// A missing file yields no sources and no error.
	ReadRegistries(path string) ([]domain.RegistrySource, error)

	// WriteRegistries replaces the sources in the file at path, keeping every other key.
	WriteRegistries(path string, sources []domain.RegistrySource) error
}
