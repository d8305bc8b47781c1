// Package app implements the application layer for forge.
package app

import (
	"context"
	"fmt"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"github.com/fractary/forge/internal/engine/fork"
	"github.com/fractary/forge/internal/engine/lockfile"
	"github.com/fractary/forge/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App is the entry point of every CLI command. It holds the long-lived adapters and
// builds the engines from freshly loaded settings on each call.
type App struct {
	loader   ports.ConfigLoader
	registry ports.RegistryConfig
	codec    ports.DefinitionCodec
	hasher   ports.IntegrityHasher
	remotes  ports.RemoteSourceFactory
	logger   ports.Logger
	tracer   ports.Tracer

	workDir  string
	offline  bool
	logLevel string
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	registry ports.RegistryConfig,
	codec ports.DefinitionCodec,
	hasher ports.IntegrityHasher,
	remotes ports.RemoteSourceFactory,
	logger ports.Logger,
	tracer ports.Tracer,
) *App {
	return &App{
		loader:   loader,
		registry: registry,
		codec:    codec,
		hasher:   hasher,
		remotes:  remotes,
		logger:   logger,
		tracer:   tracer,
		workDir:  ".",
	}
}

// WithWorkDir sets the directory project discovery starts from.
func (a *App) WithWorkDir(dir string) *App {
	a.workDir = dir
	return a
}

// WithOffline forces offline resolution regardless of configuration.
func (a *App) WithOffline(offline bool) *App {
	a.offline = offline
	return a
}

// WithLogLevel overrides the configured log level. Empty keeps the configuration.
func (a *App) WithLogLevel(level string) *App {
	a.logLevel = level
	return a
}

// ResolveOptions controls Resolve.
type ResolveOptions struct {
	// Locked serves the artifact from its lockfile pin without touching the network.
	Locked bool
	// Flatten applies the extends chain to the returned definition.
	Flatten bool
}

// Resolve resolves one identifier of the given kind.
func (a *App) Resolve(ctx context.Context, kind domain.Kind, identifier string, opts ResolveOptions) (*domain.ResolvedArtifact, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}

	var art *domain.ResolvedArtifact
	if opts.Locked {
		art, err = e.resolveLocked(ctx, kind, identifier)
	} else {
		art, err = e.resolver.Resolve(ctx, kind, identifier)
	}
	if err != nil {
		return nil, err
	}
	if opts.Flatten {
		return e.graph.Flatten(ctx, art)
	}
	return art, nil
}

// Graph resolves identifier and builds its dependency graph.
func (a *App) Graph(ctx context.Context, kind domain.Kind, identifier string) (*domain.DependencyGraph, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}
	root, err := e.resolver.Resolve(ctx, kind, identifier)
	if err != nil {
		return nil, err
	}
	return e.graph.Build(ctx, root)
}

// List enumerates artifacts of a kind. source is "local", "global", a remote source
// name, or empty for local and global.
func (a *App) List(ctx context.Context, kind domain.Kind, source string) ([]resolver.ListEntry, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}
	return e.resolver.List(ctx, kind, resolver.ListOptions{Source: source})
}

// Info describes the artifact identifier resolves to.
func (a *App) Info(ctx context.Context, kind domain.Kind, identifier string) (*resolver.ArtifactInfo, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}
	return e.resolver.Info(ctx, kind, identifier)
}

// LockResult is the outcome of Lock.
type LockResult struct {
	*lockfile.GenerateResult
	Path string
}

// Lock snapshots every project artifact and its dependencies into the lockfile.
// An existing lockfile is kept unless force is set.
func (a *App) Lock(ctx context.Context, force bool) (*LockResult, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}
	roots, err := e.lockfile.Discover()
	if err != nil {
		return nil, err
	}
	if len(roots) == 0 {
		a.logger.Warn("no agents or tools found under " + domain.FractaryDirName)
	}
	res, err := e.lockfile.Generate(ctx, roots, lockfile.GenerateOptions{Force: force})
	if err != nil {
		return nil, err
	}
	return &LockResult{GenerateResult: res, Path: e.lockfile.Path()}, nil
}

// Validate checks the lockfile against the stores.
func (a *App) Validate(ctx context.Context) (*domain.ValidationReport, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}
	lf, err := e.lockfile.Load()
	if err != nil {
		return nil, err
	}
	return e.lockfile.Validate(ctx, lf)
}

// Install downloads every locked artifact missing from the global store.
func (a *App) Install(ctx context.Context) (*lockfile.InstallReport, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}
	if e.settings.Resolution.Offline {
		return nil, zerr.With(domain.ErrRemoteUnavailable, "reason", "offline")
	}
	lf, err := e.lockfile.Load()
	if err != nil {
		return nil, err
	}
	return e.lockfile.Install(ctx, lf)
}

// Fork copies source into the project under target.
func (a *App) Fork(ctx context.Context, kind domain.Kind, source, target string) (*domain.ResolvedArtifact, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}
	return e.fork.Fork(ctx, kind, source, target)
}

// CheckFork reports whether the fork's upstream has a newer version.
func (a *App) CheckFork(ctx context.Context, kind domain.Kind, name string) (*fork.UpdateStatus, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}
	return e.fork.CheckUpstreamUpdates(ctx, kind, name)
}

// MergeFork merges the fork's latest upstream into it.
func (a *App) MergeFork(ctx context.Context, kind domain.Kind, name string, opts fork.MergeOptions) (*fork.MergeReport, error) {
	e, err := a.open()
	if err != nil {
		return nil, err
	}
	return e.fork.MergeUpstream(ctx, kind, name, opts)
}

// CacheClean removes expired manifest cache entries, or all of them when all is set.
func (a *App) CacheClean(all bool) (int, error) {
	e, err := a.open()
	if err != nil {
		return 0, err
	}
	removed, err := e.manifests.Clean(all)
	if err != nil {
		return removed, err
	}
	if e.responses != nil {
		e.responses.Cleanup()
	}
	a.logger.Debug(fmt.Sprintf("removed %d manifest cache entries", removed))
	return removed, nil
}
