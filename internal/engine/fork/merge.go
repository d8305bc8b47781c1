package fork

import (
	"context"
	"fmt"
	"strings"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.trai.ch/zerr"
)

// Strategy decides conflicts that have no explicit resolution.
type Strategy string

const (
	// StrategyManual leaves conflicts unresolved.
	StrategyManual Strategy = "manual"
	// StrategyOurs keeps the fork's value.
	StrategyOurs Strategy = "ours"
	// StrategyTheirs takes the upstream value.
	StrategyTheirs Strategy = "theirs"
)

// ParseStrategy validates a strategy name. Empty means manual.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case "", StrategyManual:
		return StrategyManual, nil
	case StrategyOurs, StrategyTheirs:
		return Strategy(s), nil
	default:
		return "", zerr.With(domain.ErrConfigInvalid, "strategy", s)
	}
}

// MergeOptions controls MergeUpstream.
type MergeOptions struct {
	Strategy Strategy
	// Resolutions picks a side per conflict path and takes precedence over Strategy.
	Resolutions map[string]domain.Side
	// TextMerge tries a patch-based merge of multi-line strings edited on both sides.
	TextMerge bool
	// DryRun computes the merge without writing it.
	DryRun bool
}

// MergeReport is the outcome of MergeUpstream.
type MergeReport struct {
	Name            string
	UpstreamVersion string
	Merged          map[string]any
	// Conflicts lists every conflicting path; Unresolved is the subset still open.
	Conflicts  []domain.Conflict
	Unresolved []domain.Conflict
	Written    bool
}

// MergeUpstream merges the latest upstream version into a fork, using the fork-point
// snapshot as base. Name and version stay the fork's own. When conflicts remain
// unresolved the report is returned together with ErrMergeConflict and nothing is
// written. On success the fork record moves to the merged upstream version.
func (m *Manager) MergeUpstream(ctx context.Context, kind domain.Kind, name string, opts MergeOptions) (*MergeReport, error) {
	ctx, span := m.tracer.Start(ctx, "fork.merge",
		ports.WithAttribute("name", name),
		ports.WithAttribute("strategy", string(opts.Strategy)),
	)
	defer span.End()

	report, err := m.merge(ctx, kind, name, opts)
	if err != nil {
		span.RecordError(err)
	}
	if report != nil {
		span.SetAttribute("conflicts", len(report.Conflicts))
		span.SetAttribute("unresolved", len(report.Unresolved))
	}
	return report, err
}

func (m *Manager) merge(ctx context.Context, kind domain.Kind, name string, opts MergeOptions) (*MergeReport, error) {
	art, err := m.loadFork(kind, name)
	if err != nil {
		return nil, err
	}
	rec := *art.Definition.Fork

	_, baseData, err := m.local.ReadFork(kind, name)
	if err != nil {
		return nil, err
	}
	if baseData == nil {
		return nil, zerr.With(domain.ErrForkBaseMissing, "name", name)
	}
	base, err := m.codec.Decode(baseData)
	if err != nil {
		return nil, zerr.With(err, "name", name)
	}

	upstream, err := m.resolver.ResolveLatest(ctx, kind, rec.SourceName)
	if err != nil {
		return nil, zerr.With(err, "fork", name)
	}
	upstreamDoc := upstream.Definition.Payload()

	rules := domain.MergeRules{Ignore: []string{domain.FieldName, domain.FieldVersion}}
	if opts.TextMerge {
		rules.Text = mergeText
	}
	result := domain.ThreeWayMerge(base, art.Definition.Payload(), upstreamDoc, rules)

	report := &MergeReport{
		Name:            name,
		UpstreamVersion: upstream.Version,
		Conflicts:       result.Conflicts,
	}
	for _, c := range result.Conflicts {
		side, ok := opts.Resolutions[c.Path]
		if !ok {
			switch opts.Strategy {
			case StrategyOurs:
				side, ok = domain.SideLocal, true
			case StrategyTheirs:
				side, ok = domain.SideUpstream, true
			}
		}
		if !ok {
			report.Unresolved = append(report.Unresolved, c)
			continue
		}
		result.Resolve(c, side)
	}
	report.Merged = result.Merged

	if len(report.Unresolved) > 0 {
		paths := make([]string, 0, len(report.Unresolved))
		for _, c := range report.Unresolved {
			paths = append(paths, c.Path)
		}
		err := zerr.With(domain.ErrMergeConflict, "name", name)
		return report, zerr.With(err, "conflicts", strings.Join(paths, ", "))
	}
	if opts.DryRun {
		return report, nil
	}

	// Validate before touching the fork.
	data, err := m.codec.Encode(result.Merged)
	if err != nil {
		return nil, err
	}
	if _, err := m.codec.Parse(kind, data); err != nil {
		return nil, zerr.With(err, "name", name)
	}
	newBase, err := m.codec.Encode(upstreamDoc)
	if err != nil {
		return nil, err
	}

	if _, err := m.local.Write(kind, name, data); err != nil {
		return nil, err
	}
	mergedAt := m.now().UTC()
	rec.MergedAt = &mergedAt
	rec.SourceVersion = upstream.Version
	if err := m.local.WriteFork(kind, name, &rec, newBase); err != nil {
		return nil, err
	}

	report.Written = true
	m.logger.Debug(fmt.Sprintf("merged %s@%s into %s", rec.SourceName, upstream.Version, name))
	return report, nil
}

// mergeText applies the upstream edit of a multi-line string onto the local edit.
// Single-line values are left to conflict resolution.
func mergeText(base, local, upstream string) (string, bool) {
	if !strings.Contains(base, "\n") {
		return "", false
	}
	dmp := diffmatchpatch.New()
	patches := dmp.PatchMake(base, upstream)
	merged, applied := dmp.PatchApply(patches, local)
	for _, ok := range applied {
		if !ok {
			return "", false
		}
	}
	return merged, true
}
