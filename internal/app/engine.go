package app

import (
	"context"
	"time"

	"github.com/fractary/forge/internal/adapters/cache" //nolint:depguard // Wired in app layer
	"github.com/fractary/forge/internal/adapters/fs"    //nolint:depguard // Wired in app layer
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"github.com/fractary/forge/internal/engine/fork"
	"github.com/fractary/forge/internal/engine/graph"
	"github.com/fractary/forge/internal/engine/lockfile"
	"github.com/fractary/forge/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// engine is the set of collaborators built for one project and one settings snapshot.
type engine struct {
	settings  *domain.Settings
	local     *fs.LocalStore
	global    *fs.GlobalStore
	manifests *cache.ManifestCache
	// responses is nil when caching is disabled.
	responses *cache.ResponseCache

	resolver *resolver.Resolver
	graph    *graph.Builder
	lockfile *lockfile.Manager
	fork     *fork.Manager
}

// configurable is implemented by loggers whose output can follow the settings.
type configurable interface {
	SetLevel(level string) error
	SetJSON(enable bool)
}

func (a *App) settings() (*domain.Settings, error) {
	root, err := a.loader.DiscoverRoot(a.workDir)
	if err != nil {
		return nil, err
	}
	settings, err := a.loader.Load(root)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	if a.offline {
		settings.Resolution.Offline = true
	}
	return settings, nil
}

func (a *App) open() (*engine, error) {
	settings, err := a.settings()
	if err != nil {
		return nil, err
	}
	if err := a.configureLogger(settings.Log); err != nil {
		return nil, err
	}

	e := &engine{
		settings:  settings,
		local:     fs.NewLocalStore(settings.ProjectRoot, a.codec),
		global:    fs.NewGlobalStore(settings.GlobalRoot, a.codec),
		manifests: cache.NewManifestCache(domain.ManifestCacheDir(settings.GlobalRoot)),
	}

	// Typed nils must not leak into the interfaces.
	var responses ports.ResponseCache
	var manifests ports.ManifestCache
	if settings.Cache.Enabled {
		e.responses = cache.NewResponseCache(time.Duration(settings.Cache.TTL)*time.Second, settings.Cache.MaxSize)
		responses = e.responses
		manifests = e.manifests
	}

	remotes, err := a.remoteSources(settings, manifests)
	if err != nil {
		return nil, err
	}

	concurrency := settings.Resolution.Concurrency
	e.resolver = resolver.New(resolver.Config{
		Local:         e.local,
		Global:        e.global,
		Remotes:       remotes,
		Cache:         responses,
		Codec:         a.codec,
		Hasher:        a.hasher,
		Logger:        a.logger,
		Tracer:        a.tracer,
		LocalMismatch: settings.Resolution.LocalMismatch,
		Offline:       settings.Resolution.Offline,
	})
	e.graph = graph.NewBuilder(e.resolver, a.logger, a.tracer, concurrency)
	e.lockfile = lockfile.New(lockfile.Config{
		Resolver:    e.resolver,
		Graph:       e.graph,
		Local:       e.local,
		Global:      e.global,
		Store:       fs.NewLockfileStore(),
		Hasher:      a.hasher,
		Logger:      a.logger,
		Tracer:      a.tracer,
		Path:        domain.LockfilePath(settings.ProjectRoot),
		Concurrency: concurrency,
	})
	e.fork = fork.New(fork.Config{
		Resolver: e.resolver,
		Local:    e.local,
		Global:   e.global,
		Codec:    a.codec,
		Logger:   a.logger,
		Tracer:   a.tracer,
	})
	return e, nil
}

func (a *App) configureLogger(cfg domain.LogSettings) error {
	l, ok := a.logger.(configurable)
	if !ok {
		return nil
	}
	level := cfg.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	if level != "" {
		if err := l.SetLevel(level); err != nil {
			return err
		}
	}
	l.SetJSON(cfg.Format == "json")
	return nil
}

// remoteSources builds the enabled sources in priority order.
func (a *App) remoteSources(settings *domain.Settings, manifests ports.ManifestCache) ([]ports.RemoteSource, error) {
	active := domain.ActiveSources(settings.Registries)
	out := make([]ports.RemoteSource, 0, len(active))
	for _, cfg := range active {
		src, err := a.remotes.New(cfg, settings.Resolution.FetchTimeout(), manifests)
		if err != nil {
			return nil, zerr.With(err, "source", cfg.Name)
		}
		out = append(out, src)
	}
	return out, nil
}

// resolveLocked serves identifier from its lockfile pin. A constraint, when given,
// must be satisfied by the pinned version.
func (e *engine) resolveLocked(ctx context.Context, kind domain.Kind, identifier string) (*domain.ResolvedArtifact, error) {
	id, err := domain.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	art, err := e.lockfile.ResolveLocked(ctx, kind, id.Name)
	if err != nil {
		return nil, err
	}
	if id.IsLatest() {
		return art, nil
	}
	ok, err := domain.Satisfies(art.Version, id.Constraint)
	if err != nil {
		return nil, err
	}
	if !ok {
		err := zerr.With(domain.ErrLockfileStale, "identifier", id.String())
		return nil, zerr.With(err, "locked", art.Version)
	}
	return art, nil
}
