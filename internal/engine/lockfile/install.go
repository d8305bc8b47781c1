package lockfile

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/fractary/forge/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// InstallReport lists what Install did.
type InstallReport struct {
	// Installed are the entries downloaded into the global store, as kind/name@version.
	Installed []string
	// Present counts entries that were already installed.
	Present int
}

// Install downloads every global or remote pin missing from the global store at its
// exact version, preferring the registry it was locked from, and verifies its digest.
func (m *Manager) Install(ctx context.Context, lf *domain.Lockfile) (*InstallReport, error) {
	if err := lf.CheckExact(); err != nil {
		return nil, err
	}

	var refs []lockedRef
	lf.Each(func(kind domain.Kind, entry domain.LockEntry) {
		if entry.ResolvedFrom != domain.TierLocal {
			refs = append(refs, lockedRef{kind: kind, entry: entry})
		}
	})

	var mu sync.Mutex
	report := &InstallReport{}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(m.concurrency)
	for _, ref := range refs {
		eg.Go(func() error {
			installed, err := m.install(egCtx, ref)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			if installed {
				report.Installed = append(report.Installed,
					fmt.Sprintf("%s/%s@%s", ref.kind, ref.entry.Name, ref.entry.Version))
			} else {
				report.Present++
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	slices.Sort(report.Installed)
	return report, nil
}

func (m *Manager) install(ctx context.Context, ref lockedRef) (bool, error) {
	entry := ref.entry
	_, issue, err := m.check(ref.kind, entry)
	if err != nil {
		return false, err
	}
	if issue == nil {
		return false, nil
	}
	if issue.Kind != domain.IssueCacheMiss {
		report := domain.ValidationReport{Errors: []domain.ValidationIssue{*issue}}
		return false, report.Err()
	}

	m.logger.Info(fmt.Sprintf("installing %s %s@%s", ref.kind, entry.Name, entry.Version))
	if _, err := m.resolver.FetchRemote(ctx, ref.kind, entry.Name, entry.Version, entry.Registry, entry.Integrity); err != nil {
		return false, err
	}

	_, issue, err = m.check(ref.kind, entry)
	if err != nil {
		return false, err
	}
	if issue != nil {
		if rmErr := m.global.Remove(ref.kind, entry.Name, entry.Version); rmErr != nil {
			m.logger.Warn(fmt.Sprintf("failed to remove %s %s@%s: %v", ref.kind, entry.Name, entry.Version, rmErr))
		}
		err := zerr.With(domain.ErrIntegrityMismatch, "identifier", entry.Name+"@"+entry.Version)
		err = zerr.With(err, "expected", entry.Integrity)
		return false, zerr.With(err, "reason", issue.Message)
	}
	return true, nil
}
