// Package fork copies resolved artifacts into the project with upstream provenance and
// merges later upstream changes into those copies.
package fork

import (
	"context"
	"fmt"
	"time"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// Config holds the collaborators of a Manager.
type Config struct {
	Resolver ports.ArtifactResolver
	Local    ports.LocalStore
	Global   ports.GlobalStore
	Codec    ports.DefinitionCodec
	Logger   ports.Logger
	Tracer   ports.Tracer
	// Now stamps fork records. Defaults to time.Now.
	Now func() time.Time
}

// Manager implements fork, update checks and upstream merges.
type Manager struct {
	resolver ports.ArtifactResolver
	local    ports.LocalStore
	global   ports.GlobalStore
	codec    ports.DefinitionCodec
	logger   ports.Logger
	tracer   ports.Tracer
	now      func() time.Time
}

// New creates a Manager from cfg.
func New(cfg Config) *Manager {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Manager{
		resolver: cfg.Resolver,
		local:    cfg.Local,
		global:   cfg.Global,
		codec:    cfg.Codec,
		logger:   cfg.Logger,
		tracer:   cfg.Tracer,
		now:      now,
	}
}

// Fork resolves source and writes a copy named target into the project, together with
// its fork record and a snapshot of the source as the merge base. The fork is also
// listed in the source's fork index when the source is stored on disk.
func (m *Manager) Fork(ctx context.Context, kind domain.Kind, source, target string) (*domain.ResolvedArtifact, error) {
	if err := domain.ValidateName(target); err != nil {
		return nil, err
	}
	existing, err := m.local.Load(kind, target)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		err := zerr.With(domain.ErrForkTargetExists, "name", target)
		return nil, zerr.With(err, "path", existing.Origin)
	}

	src, err := m.resolver.Resolve(ctx, kind, source)
	if err != nil {
		return nil, err
	}

	doc := src.Definition.Payload()
	base, err := m.codec.Encode(doc)
	if err != nil {
		return nil, err
	}
	doc[domain.FieldName] = target
	data, err := m.codec.Encode(doc)
	if err != nil {
		return nil, err
	}

	if _, err := m.local.Write(kind, target, data); err != nil {
		return nil, err
	}
	rec := &domain.ForkRecord{
		SourceName:    src.Definition.Name,
		SourceKind:    kind,
		SourceVersion: src.Version,
		ForkedAt:      m.now().UTC(),
	}
	if err := m.local.WriteFork(kind, target, rec, base); err != nil {
		// A copy without its record would look like an ordinary local artifact.
		if rmErr := m.local.Remove(kind, target); rmErr != nil {
			m.logger.Warn(fmt.Sprintf("could not remove incomplete fork %s: %v", target, rmErr))
		}
		return nil, err
	}

	m.recordFork(src, domain.Ref{Kind: kind, Name: target})
	m.logger.Debug(fmt.Sprintf("forked %s into %s", src, target))

	return m.local.Load(kind, target)
}

// recordFork lists the fork in the source's fork index. Failures are logged only.
func (m *Manager) recordFork(src *domain.ResolvedArtifact, fork domain.Ref) {
	var err error
	switch src.Source.Tier {
	case domain.TierLocal:
		err = m.local.RecordFork(fork.Kind, src.Definition.Name, fork)
	default:
		err = m.global.RecordFork(fork.Kind, src.Definition.Name, src.Version, fork)
	}
	if err != nil {
		m.logger.Warn(fmt.Sprintf("could not record fork %s on %s: %v", fork, src, err))
	}
}

// UpdateStatus compares a fork with its upstream.
type UpdateStatus struct {
	Name      string
	Source    string
	Current   string
	Latest    string
	HasUpdate bool
}

// CheckUpstreamUpdates compares the fork's recorded source version with the latest
// resolvable version of its source.
func (m *Manager) CheckUpstreamUpdates(ctx context.Context, kind domain.Kind, name string) (*UpdateStatus, error) {
	art, err := m.loadFork(kind, name)
	if err != nil {
		return nil, err
	}
	rec := art.Definition.Fork

	upstream, err := m.resolver.ResolveLatest(ctx, kind, rec.SourceName)
	if err != nil {
		return nil, zerr.With(err, "fork", name)
	}
	cmp, err := domain.CompareVersions(upstream.Version, rec.SourceVersion)
	if err != nil {
		return nil, err
	}
	return &UpdateStatus{
		Name:      name,
		Source:    rec.SourceName,
		Current:   rec.SourceVersion,
		Latest:    upstream.Version,
		HasUpdate: cmp > 0,
	}, nil
}

func (m *Manager) loadFork(kind domain.Kind, name string) (*domain.ResolvedArtifact, error) {
	art, err := m.local.Load(kind, name)
	if err != nil {
		return nil, err
	}
	if art == nil {
		err := zerr.With(domain.ErrNotFound, "identifier", name)
		err = zerr.With(err, "kind", string(kind))
		return nil, zerr.With(err, "consulted", string(domain.TierLocal))
	}
	if art.Definition.Fork == nil {
		return nil, zerr.With(domain.ErrNotAFork, "name", name)
	}
	return art, nil
}
