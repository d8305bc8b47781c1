package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// LockfileFormatVersion is the schema version written by this build.
const LockfileFormatVersion = 1

// LockEntry pins one artifact to an exact version and digest.
type LockEntry struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	ResolvedFrom Tier   `json:"resolvedFrom"`
	// Registry names the remote source for entries resolved from the remote tier.
	Registry  string `json:"registry,omitempty"`
	Integrity string `json:"integrity"`
	// Dependencies maps dependency refs (kind/name) to their exact locked versions.
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Lockfile is a reproducible, exact-version snapshot of a project's artifacts.
// It is always regenerated wholesale.
type Lockfile struct {
	FormatVersion int                  `json:"formatVersion"`
	GeneratedAt   time.Time            `json:"generatedAt"`
	Agents        map[string]LockEntry `json:"agents"`
	Tools         map[string]LockEntry `json:"tools"`
}

// NewLockfile creates an empty lockfile stamped with the given time.
func NewLockfile(generatedAt time.Time) *Lockfile {
	return &Lockfile{
		FormatVersion: LockfileFormatVersion,
		GeneratedAt:   generatedAt.UTC(),
		Agents:        make(map[string]LockEntry),
		Tools:         make(map[string]LockEntry),
	}
}

// Entries returns the entry map of a kind.
func (l *Lockfile) Entries(kind Kind) map[string]LockEntry {
	if kind == KindTool {
		return l.Tools
	}
	return l.Agents
}

// Get looks up the entry of kind/name.
func (l *Lockfile) Get(kind Kind, name string) (LockEntry, bool) {
	e, ok := l.Entries(kind)[name]
	return e, ok
}

// Put stores an entry under its kind, replacing any previous entry of that name.
func (l *Lockfile) Put(kind Kind, entry LockEntry) {
	if kind == KindTool {
		if l.Tools == nil {
			l.Tools = make(map[string]LockEntry)
		}
		l.Tools[entry.Name] = entry
		return
	}
	if l.Agents == nil {
		l.Agents = make(map[string]LockEntry)
	}
	l.Agents[entry.Name] = entry
}

// Len returns the number of entries across kinds.
func (l *Lockfile) Len() int {
	return len(l.Agents) + len(l.Tools)
}

// Each yields every entry in kind then name order.
func (l *Lockfile) Each(fn func(kind Kind, entry LockEntry)) {
	for _, kind := range Kinds() {
		entries := l.Entries(kind)
		for _, name := range slices.Sorted(maps.Keys(entries)) {
			fn(kind, entries[name])
		}
	}
}

// SameContent reports whether two lockfiles pin the same entries, ignoring GeneratedAt.
func (l *Lockfile) SameContent(other *Lockfile) bool {
	if other == nil || l.FormatVersion != other.FormatVersion {
		return false
	}
	return entriesEqual(l.Agents, other.Agents) && entriesEqual(l.Tools, other.Tools)
}

func entriesEqual(a, b map[string]LockEntry) bool {
	if len(a) != len(b) {
		return false
	}
	for name, ea := range a {
		eb, ok := b[name]
		if !ok {
			return false
		}
		if ea.Name != eb.Name || ea.Version != eb.Version || ea.ResolvedFrom != eb.ResolvedFrom ||
			ea.Registry != eb.Registry || ea.Integrity != eb.Integrity ||
			!maps.Equal(ea.Dependencies, eb.Dependencies) {
			return false
		}
	}
	return true
}

// CheckExact verifies the structural invariants: supported format, exact versions only,
// known tiers.
func (l *Lockfile) CheckExact() error {
	if l.FormatVersion < 1 || l.FormatVersion > LockfileFormatVersion {
		return zerr.With(ErrLockfileUnsupported, "format_version", l.FormatVersion)
	}
	var err error
	l.Each(func(kind Kind, e LockEntry) {
		if err != nil {
			return
		}
		if verr := ValidateVersion(e.Version); verr != nil {
			err = zerr.With(zerr.With(ErrLockfileInvalid, "entry", Ref{Kind: kind, Name: e.Name}.String()), "version", e.Version)
			return
		}
		switch e.ResolvedFrom {
		case TierLocal, TierGlobal, TierRemote:
		default:
			err = zerr.With(zerr.With(ErrLockfileInvalid, "entry", Ref{Kind: kind, Name: e.Name}.String()), "resolved_from", string(e.ResolvedFrom))
			return
		}
		for dep, v := range e.Dependencies {
			if _, rerr := ParseRef(dep); rerr != nil {
				err = zerr.With(zerr.With(ErrLockfileInvalid, "entry", Ref{Kind: kind, Name: e.Name}.String()), "dependency", dep)
				return
			}
			if verr := ValidateVersion(v); verr != nil {
				err = zerr.With(zerr.With(ErrLockfileInvalid, "entry", Ref{Kind: kind, Name: e.Name}.String()), "dependency", dep+"@"+v)
				return
			}
		}
	})
	return err
}

// IssueKind classifies a lockfile validation finding.
type IssueKind string

const (
	// IssueIntegrityMismatch means the recomputed digest differs from the pinned one.
	IssueIntegrityMismatch IssueKind = "integrity_mismatch"
	// IssueMissing means the artifact no longer exists in its recorded tier.
	IssueMissing IssueKind = "missing"
	// IssueCacheMiss means a global/remote pin is not present in the global store.
	IssueCacheMiss IssueKind = "cache_miss"
	// IssueVersionDrift means a local artifact changed version since locking.
	IssueVersionDrift IssueKind = "version_drift"
	// IssueUnlocked means a discovered project artifact has no lock entry.
	IssueUnlocked IssueKind = "unlocked"
	// IssueDanglingDependency means an entry pins a dependency that has no entry of its own.
	IssueDanglingDependency IssueKind = "dangling_dependency"
)

// ValidationIssue is one finding of a lockfile validation.
type ValidationIssue struct {
	Kind    IssueKind `json:"kind"`
	Ref     Ref       `json:"-"`
	Version string    `json:"version,omitempty"`
	Message string    `json:"message"`
}

// String renders the issue for display.
func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s %s@%s: %s", i.Kind, i.Ref, i.Version, i.Message)
}

// ValidationReport is the result of validating a lockfile against the live stores.
type ValidationReport struct {
	Valid    bool
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// Err folds the report's errors into a single error, or nil when valid.
// The sentinel reflects the first error found.
func (r *ValidationReport) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	var sentinel error
	switch r.Errors[0].Kind {
	case IssueIntegrityMismatch:
		sentinel = ErrIntegrityMismatch
	case IssueCacheMiss:
		sentinel = ErrCacheMiss
	case IssueVersionDrift:
		sentinel = ErrLockfileStale
	default:
		sentinel = ErrMissingArtifact
	}
	lines := make([]string, 0, len(r.Errors))
	for _, issue := range r.Errors {
		lines = append(lines, issue.String())
	}
	err := zerr.With(sentinel, "issues", strings.Join(lines, "\n"))
	return zerr.With(err, "count", len(r.Errors))
}
