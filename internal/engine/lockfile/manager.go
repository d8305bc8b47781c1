// Package lockfile generates, validates and installs project lockfiles.
package lockfile

import (
	"context"
	"fmt"
	"time"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"github.com/google/uuid"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// GraphBuilder expands resolved roots into a validated dependency graph.
type GraphBuilder interface {
	Build(ctx context.Context, roots ...*domain.ResolvedArtifact) (*domain.DependencyGraph, error)
}

// Config holds the collaborators of a Manager.
type Config struct {
	Resolver ports.ArtifactResolver
	Graph    GraphBuilder
	Local    ports.LocalStore
	Global   ports.GlobalStore
	Store    ports.LockfileStore
	Hasher   ports.IntegrityHasher
	Logger   ports.Logger
	Tracer   ports.Tracer

	// Path is the lockfile location.
	Path        string
	Concurrency int
	// Now stamps generated lockfiles. Defaults to time.Now.
	Now func() time.Time
}

// Manager implements lockfile generation and validation for one project.
type Manager struct {
	resolver    ports.ArtifactResolver
	graph       GraphBuilder
	local       ports.LocalStore
	global      ports.GlobalStore
	store       ports.LockfileStore
	hasher      ports.IntegrityHasher
	logger      ports.Logger
	tracer      ports.Tracer
	path        string
	concurrency int
	now         func() time.Time
}

// New creates a Manager from cfg.
func New(cfg Config) *Manager {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Manager{
		resolver:    cfg.Resolver,
		graph:       cfg.Graph,
		local:       cfg.Local,
		global:      cfg.Global,
		store:       cfg.Store,
		hasher:      cfg.Hasher,
		logger:      cfg.Logger,
		tracer:      cfg.Tracer,
		path:        cfg.Path,
		concurrency: concurrency,
		now:         now,
	}
}

// Path returns the lockfile location.
func (m *Manager) Path() string {
	return m.path
}

// Status describes what Generate did with the lockfile on disk.
type Status string

const (
	// StatusWritten means a new lockfile was written.
	StatusWritten Status = "written"
	// StatusUnchanged means a forced regeneration produced the same pins, so the
	// existing file was kept byte for byte.
	StatusUnchanged Status = "unchanged"
	// StatusKept means a lockfile already existed and force was not set.
	StatusKept Status = "kept"
)

// GenerateOptions controls Generate.
type GenerateOptions struct {
	// Force regenerates over an existing lockfile.
	Force bool
}

// GenerateResult is the outcome of Generate.
type GenerateResult struct {
	Lockfile *domain.Lockfile
	Status   Status
}

// Discover lists every artifact present in the project, agents first.
func (m *Manager) Discover() ([]domain.Ref, error) {
	var refs []domain.Ref
	for _, kind := range domain.Kinds() {
		names, err := m.local.Names(kind)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			refs = append(refs, domain.Ref{Kind: kind, Name: name})
		}
	}
	return refs, nil
}

// Generate resolves roots and their dependency graphs and pins the result. An existing
// lockfile is authoritative unless opts.Force is set. Nothing is written unless the
// whole graph resolves.
func (m *Manager) Generate(ctx context.Context, roots []domain.Ref, opts GenerateOptions) (*GenerateResult, error) {
	existing, _, err := m.store.Read(m.path)
	if err != nil {
		return nil, err
	}
	if existing != nil && !opts.Force {
		m.logger.Debug("lockfile exists at " + m.path + ", keeping it")
		return &GenerateResult{Lockfile: existing, Status: StatusKept}, nil
	}

	generation := uuid.NewString()
	ctx, span := m.tracer.Start(ctx, "lockfile.generate",
		ports.WithAttribute("generation", generation),
		ports.WithAttribute("roots", len(roots)),
	)
	defer span.End()
	m.logger.Debug(fmt.Sprintf("generating lockfile %s for %d artifacts", generation, len(roots)))

	lf, err := m.snapshot(ctx, roots, existing)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if lf.SameContent(existing) {
		return &GenerateResult{Lockfile: existing, Status: StatusUnchanged}, nil
	}
	if err := m.store.Write(m.path, lf); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("entries", lf.Len())
	return &GenerateResult{Lockfile: lf, Status: StatusWritten}, nil
}

// snapshot resolves roots and pins the whole graph. A global hit that was previously
// locked from a remote registry at the same version and digest keeps its remote provenance,
// since the global copy is that download.
func (m *Manager) snapshot(ctx context.Context, roots []domain.Ref, previous *domain.Lockfile) (*domain.Lockfile, error) {
	resolved := make([]*domain.ResolvedArtifact, len(roots))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.concurrency)
	for i, ref := range roots {
		eg.Go(func() error {
			art, err := m.resolver.Resolve(egCtx, ref.Kind, ref.Name)
			if err != nil {
				return err
			}
			resolved[i] = art
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g, err := m.graph.Build(ctx, resolved...)
	if err != nil {
		return nil, err
	}

	lf := domain.NewLockfile(m.now())
	for node := range g.Walk() {
		art := node.Artifact
		integrity, err := m.hasher.Digest(art.Definition)
		if err != nil {
			return nil, err
		}
		entry := domain.LockEntry{
			Name:         art.Definition.Name,
			Version:      art.Version,
			ResolvedFrom: art.Source.Tier,
			Registry:     art.Source.Registry,
			Integrity:    integrity,
		}
		if entry.ResolvedFrom == domain.TierGlobal && previous != nil {
			if prev, ok := previous.Get(node.Ref.Kind, entry.Name); ok &&
				prev.ResolvedFrom == domain.TierRemote &&
				prev.Version == entry.Version && prev.Integrity == entry.Integrity {
				entry.ResolvedFrom, entry.Registry = prev.ResolvedFrom, prev.Registry
			}
		}
		for _, dep := range node.Dependencies {
			depNode, ok := g.Node(dep)
			if !ok {
				continue
			}
			if entry.Dependencies == nil {
				entry.Dependencies = make(map[string]string)
			}
			entry.Dependencies[dep.String()] = depNode.Artifact.Version
		}
		lf.Put(node.Ref.Kind, entry)
	}
	return lf, nil
}

// Load reads the project lockfile.
func (m *Manager) Load() (*domain.Lockfile, error) {
	lf, _, err := m.store.Read(m.path)
	if err != nil {
		return nil, err
	}
	if lf == nil {
		return nil, zerr.With(domain.ErrLockfileNotFound, "path", m.path)
	}
	return lf, nil
}

// ResolveLocked returns the pinned artifact of kind/name without consulting the network.
// A global or remote pin missing from the global store is ErrCacheMiss.
func (m *Manager) ResolveLocked(ctx context.Context, kind domain.Kind, name string) (*domain.ResolvedArtifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lf, err := m.Load()
	if err != nil {
		return nil, err
	}
	entry, ok := lf.Get(kind, name)
	if !ok {
		err := zerr.With(domain.ErrNotFound, "identifier", name)
		err = zerr.With(err, "kind", string(kind))
		return nil, zerr.With(err, "reason", "not in lockfile")
	}

	art, issue, err := m.check(kind, entry)
	if err != nil {
		return nil, err
	}
	if issue != nil {
		report := domain.ValidationReport{Errors: []domain.ValidationIssue{*issue}}
		return nil, report.Err()
	}
	return art, nil
}
