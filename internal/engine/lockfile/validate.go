package lockfile

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

type lockedRef struct {
	kind  domain.Kind
	entry domain.LockEntry
}

// Validate checks every entry of lf against the live stores without touching the
// network. Findings are reported as data; the returned error is reserved for
// structural problems and store failures.
func (m *Manager) Validate(ctx context.Context, lf *domain.Lockfile) (*domain.ValidationReport, error) {
	ctx, span := m.tracer.Start(ctx, "lockfile.validate", ports.WithAttribute("entries", lf.Len()))
	defer span.End()

	if err := lf.CheckExact(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var refs []lockedRef
	lf.Each(func(kind domain.Kind, entry domain.LockEntry) {
		refs = append(refs, lockedRef{kind: kind, entry: entry})
	})

	issues := make([]*domain.ValidationIssue, len(refs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.concurrency)
	for i, ref := range refs {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			_, issue, err := m.check(ref.kind, ref.entry)
			issues[i] = issue
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	report := &domain.ValidationReport{}
	for _, issue := range issues {
		if issue != nil {
			report.Errors = append(report.Errors, *issue)
		}
	}

	for _, ref := range refs {
		report.Warnings = append(report.Warnings, dangling(lf, ref)...)
	}
	unlocked, err := m.unlocked(lf)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	report.Warnings = append(report.Warnings, unlocked...)

	report.Valid = len(report.Errors) == 0
	span.SetAttribute("errors", len(report.Errors))
	span.SetAttribute("warnings", len(report.Warnings))
	return report, nil
}

// check loads the pinned artifact from its recorded tier and compares its digest.
// A finding is returned as an issue with a nil artifact.
func (m *Manager) check(kind domain.Kind, entry domain.LockEntry) (*domain.ResolvedArtifact, *domain.ValidationIssue, error) {
	ref := domain.Ref{Kind: kind, Name: entry.Name}
	issue := func(k domain.IssueKind, msg string) *domain.ValidationIssue {
		return &domain.ValidationIssue{Kind: k, Ref: ref, Version: entry.Version, Message: msg}
	}

	var art *domain.ResolvedArtifact
	var err error
	switch entry.ResolvedFrom {
	case domain.TierLocal:
		art, err = m.local.Load(kind, entry.Name)
		if err != nil {
			return nil, issue(domain.IssueMissing, err.Error()), nil
		}
		if art == nil {
			return nil, issue(domain.IssueMissing, "no longer present in the project"), nil
		}
		if art.Version != entry.Version {
			return nil, issue(domain.IssueVersionDrift, "project now has version "+art.Version), nil
		}
	default:
		art, err = m.global.Load(kind, entry.Name, entry.Version)
		if err != nil {
			return nil, issue(domain.IssueMissing, err.Error()), nil
		}
		if art == nil {
			return nil, issue(domain.IssueCacheMiss, "not installed in the global cache, run 'forge install'"), nil
		}
	}

	digest, err := m.hasher.Digest(art.Definition)
	if err != nil {
		return nil, nil, err
	}
	if digest != entry.Integrity {
		return nil, issue(domain.IssueIntegrityMismatch, fmt.Sprintf("expected %s, got %s", entry.Integrity, digest)), nil
	}

	// Serve the artifact under the tier it was locked from.
	if entry.ResolvedFrom == domain.TierRemote {
		out := *art
		out.Source = domain.RemoteSourceOf(entry.Registry)
		art = &out
	}
	return art, nil, nil
}

// dangling reports dependency pins that no entry of the lockfile satisfies.
func dangling(lf *domain.Lockfile, ref lockedRef) []domain.ValidationIssue {
	var out []domain.ValidationIssue
	for _, key := range slices.Sorted(maps.Keys(ref.entry.Dependencies)) {
		version := ref.entry.Dependencies[key]
		// Keys were checked by CheckExact.
		dep, _ := domain.ParseRef(key)
		if e, ok := lf.Get(dep.Kind, dep.Name); !ok || e.Version != version {
			out = append(out, domain.ValidationIssue{
				Kind:    domain.IssueDanglingDependency,
				Ref:     domain.Ref{Kind: ref.kind, Name: ref.entry.Name},
				Version: ref.entry.Version,
				Message: fmt.Sprintf("dependency %s@%s has no entry", key, version),
			})
		}
	}
	return out
}

// unlocked reports project artifacts the lockfile does not pin.
func (m *Manager) unlocked(lf *domain.Lockfile) ([]domain.ValidationIssue, error) {
	refs, err := m.Discover()
	if err != nil {
		return nil, err
	}
	var out []domain.ValidationIssue
	for _, ref := range refs {
		if _, ok := lf.Get(ref.Kind, ref.Name); ok {
			continue
		}
		out = append(out, domain.ValidationIssue{
			Kind:    domain.IssueUnlocked,
			Ref:     ref,
			Message: "present in the project but not locked, run 'forge lock --force'",
		})
	}
	return out, nil
}
