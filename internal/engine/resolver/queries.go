package resolver

import (
	"cmp"
	"context"
	"slices"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
)

// ListOptions filters List.
type ListOptions struct {
	// Source is "local", "global", a remote source name, or empty for local and global.
	Source string
}

// ListEntry is one artifact version known to a tier.
type ListEntry struct {
	Name        string
	Version     string
	Description string
	Source      domain.Source
}

// ArtifactInfo describes a resolved artifact.
type ArtifactInfo struct {
	Artifact  *domain.ResolvedArtifact
	Integrity string
	// CachedVersions lists every version of the artifact in the global store.
	CachedVersions []string
}

// List enumerates the artifacts of a kind known to the selected tiers, sorted by name
// then tier order.
func (r *Resolver) List(ctx context.Context, kind domain.Kind, opts ListOptions) ([]ListEntry, error) {
	var out []ListEntry

	switch opts.Source {
	case "", string(domain.TierLocal), string(domain.TierGlobal):
		if opts.Source != string(domain.TierGlobal) {
			entries, err := r.listLocal(kind)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		if opts.Source != string(domain.TierLocal) {
			entries, err := r.listGlobal(kind)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
	default:
		entries, err := r.listRemote(ctx, kind, opts.Source)
		if err != nil {
			return nil, err
		}
		out = entries
	}

	slices.SortStableFunc(out, func(a, b ListEntry) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (r *Resolver) listLocal(kind domain.Kind) ([]ListEntry, error) {
	names, err := r.local.Names(kind)
	if err != nil {
		return nil, err
	}
	out := make([]ListEntry, 0, len(names))
	for _, name := range names {
		art, err := r.local.Load(kind, name)
		if err != nil {
			r.logger.Warn("skipping local " + string(kind) + " " + name + ": " + err.Error())
			continue
		}
		if art == nil {
			continue
		}
		out = append(out, entryOf(art))
	}
	return out, nil
}

func (r *Resolver) listGlobal(kind domain.Kind) ([]ListEntry, error) {
	names, err := r.global.Names(kind)
	if err != nil {
		return nil, err
	}
	var out []ListEntry
	for _, name := range names {
		versions, err := r.global.Versions(kind, name)
		if err != nil {
			return nil, err
		}
		for _, v := range versions {
			art, err := r.global.Load(kind, name, v)
			if err != nil || art == nil {
				continue
			}
			out = append(out, entryOf(art))
		}
	}
	return out, nil
}

func (r *Resolver) listRemote(ctx context.Context, kind domain.Kind, source string) ([]ListEntry, error) {
	idx := slices.IndexFunc(r.remotes, func(src ports.RemoteSource) bool { return src.Name() == source })
	if idx < 0 {
		return nil, zerr.With(domain.ErrRegistrySourceNotFound, "source", source)
	}
	if r.offline {
		err := zerr.With(domain.ErrRemoteUnavailable, "source", source)
		return nil, zerr.With(err, "reason", "offline")
	}
	src := r.remotes[idx]

	fctx, cancel := context.WithTimeout(ctx, src.Timeout())
	defer cancel()
	pkgs, err := src.List(fctx)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrRemoteUnavailable.Error()), "source", source)
	}

	out := make([]ListEntry, 0, len(pkgs))
	for _, pkg := range pkgs {
		if !pkg.Matches(kind) {
			continue
		}
		out = append(out, ListEntry{
			Name:        pkg.Name,
			Version:     pkg.Version,
			Description: pkg.Description,
			Source:      domain.RemoteSourceOf(source),
		})
	}
	return out, nil
}

func entryOf(art *domain.ResolvedArtifact) ListEntry {
	return ListEntry{
		Name:        art.Definition.Name,
		Version:     art.Version,
		Description: art.Definition.Description,
		Source:      art.Source,
	}
}

// Exists reports whether identifier resolves in any tier.
func (r *Resolver) Exists(ctx context.Context, kind domain.Kind, identifier string) (bool, error) {
	_, err := r.Resolve(ctx, kind, identifier)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, err
}

// Info resolves identifier and describes the result.
func (r *Resolver) Info(ctx context.Context, kind domain.Kind, identifier string) (*ArtifactInfo, error) {
	art, err := r.Resolve(ctx, kind, identifier)
	if err != nil {
		return nil, err
	}
	digest, err := r.hasher.Digest(art.Definition)
	if err != nil {
		return nil, err
	}
	cached, err := r.global.Versions(kind, art.Definition.Name)
	if err != nil {
		return nil, err
	}
	return &ArtifactInfo{Artifact: art, Integrity: digest, CachedVersions: cached}, nil
}
