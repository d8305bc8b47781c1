package app

import (
	"slices"

	"github.com/fractary/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Scope selects the configuration file a registry edit applies to.
type Scope string

const (
	// ScopeProject edits the project's forge config file.
	ScopeProject Scope = "project"
	// ScopeUser edits the config file in the global root.
	ScopeUser Scope = "user"
)

// ParseScope validates a scope name. Empty means project.
func ParseScope(s string) (Scope, error) {
	switch Scope(s) {
	case "", ScopeProject:
		return ScopeProject, nil
	case ScopeUser:
		return ScopeUser, nil
	default:
		return "", zerr.With(domain.ErrConfigInvalid, "scope", s)
	}
}

// RegistryPatch holds the fields RegistryUpdate changes. Nil fields are kept.
type RegistryPatch struct {
	URL      *string
	Enabled  *bool
	Priority *int
	CacheTTL *int
	Timeout  *int
}

// Registries returns the effective registry sources, enabled or not, in consultation
// order.
func (a *App) Registries() ([]domain.RegistrySource, error) {
	settings, err := a.settings()
	if err != nil {
		return nil, err
	}
	out := slices.Clone(settings.Registries)
	slices.SortStableFunc(out, func(x, y domain.RegistrySource) int {
		if x.Priority != y.Priority {
			return x.Priority - y.Priority
		}
		switch {
		case x.Name < y.Name:
			return -1
		case x.Name > y.Name:
			return 1
		}
		return 0
	})
	return out, nil
}

// RegistryAdd appends src to the config file of scope.
func (a *App) RegistryAdd(scope Scope, src domain.RegistrySource) error {
	path, sources, err := a.readRegistries(scope)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(sources, func(s domain.RegistrySource) bool { return s.Name == src.Name }) {
		err := zerr.With(domain.ErrDuplicateRegistrySource, "name", src.Name)
		return zerr.With(err, "path", path)
	}
	return a.registry.WriteRegistries(path, append(sources, src))
}

// RegistryUpdate applies patch to the source called name in the config file of scope.
func (a *App) RegistryUpdate(scope Scope, name string, patch RegistryPatch) error {
	path, sources, err := a.readRegistries(scope)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(sources, func(s domain.RegistrySource) bool { return s.Name == name })
	if i < 0 {
		err := zerr.With(domain.ErrRegistrySourceNotFound, "name", name)
		return zerr.With(err, "path", path)
	}

	src := &sources[i]
	if patch.URL != nil {
		src.URL = *patch.URL
	}
	if patch.Enabled != nil {
		src.Enabled = *patch.Enabled
	}
	if patch.Priority != nil {
		src.Priority = *patch.Priority
	}
	if patch.CacheTTL != nil {
		src.CacheTTL = *patch.CacheTTL
	}
	if patch.Timeout != nil {
		src.Timeout = *patch.Timeout
	}
	return a.registry.WriteRegistries(path, sources)
}

// RegistryRemove deletes the source called name from the config file of scope.
func (a *App) RegistryRemove(scope Scope, name string) error {
	path, sources, err := a.readRegistries(scope)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(sources, func(s domain.RegistrySource) bool { return s.Name == name })
	if i < 0 {
		err := zerr.With(domain.ErrRegistrySourceNotFound, "name", name)
		return zerr.With(err, "path", path)
	}
	return a.registry.WriteRegistries(path, slices.Delete(sources, i, i+1))
}

func (a *App) readRegistries(scope Scope) (string, []domain.RegistrySource, error) {
	settings, err := a.settings()
	if err != nil {
		return "", nil, err
	}
	path := domain.ProjectConfigPath(settings.ProjectRoot)
	if scope == ScopeUser {
		path = domain.UserConfigPath(settings.GlobalRoot)
	}
	sources, err := a.registry.ReadRegistries(path)
	if err != nil {
		return "", nil, err
	}
	return path, sources, nil
}
