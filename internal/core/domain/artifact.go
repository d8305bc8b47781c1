// Package domain contains the core models of the definition registry: identifiers,
// version constraints, definitions, registry sources, lockfiles and dependency graphs.
package domain

import (
	"fmt"
	"strings"

	"go.trai.ch/zerr"
)

// Kind is the type of an artifact.
type Kind string

const (
	// KindAgent identifies agent definitions.
	KindAgent Kind = "agent"
	// KindTool identifies tool definitions.
	KindTool Kind = "tool"
)

// Kinds lists every artifact kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindAgent, KindTool}
}

// ParseKind converts a user supplied string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "agent", "agents":
		return KindAgent, nil
	case "tool", "tools":
		return KindTool, nil
	default:
		return "", zerr.With(ErrInvalidKind, "kind", s)
	}
}

// Plural returns the directory name used for the kind.
func (k Kind) Plural() string {
	return string(k) + "s"
}

// FileName returns the definition file name used for the kind.
func (k Kind) FileName() string {
	return string(k) + ".yaml"
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// Ref identifies an artifact by kind and name, independent of version.
type Ref struct {
	Kind Kind
	Name string
}

// String renders the ref as kind/name.
func (r Ref) String() string {
	return fmt.Sprintf("%s/%s", r.Kind, r.Name)
}

// ParseRef is the inverse of Ref.String.
func ParseRef(s string) (Ref, error) {
	kind, name, ok := strings.Cut(s, "/")
	if !ok {
		return Ref{}, zerr.With(ErrInvalidName, "ref", s)
	}
	k, err := ParseKind(kind)
	if err != nil {
		return Ref{}, err
	}
	if err := ValidateName(name); err != nil {
		return Ref{}, err
	}
	return Ref{Kind: k, Name: name}, nil
}

// Tier is a resolution tier.
type Tier string

const (
	// TierLocal is the project-local store.
	TierLocal Tier = "local"
	// TierGlobal is the per-user versioned cache.
	TierGlobal Tier = "global"
	// TierRemote is a configured remote registry.
	TierRemote Tier = "remote"
)

// Source records where a resolved artifact came from.
type Source struct {
	Tier Tier
	// Registry is the remote source name; empty for local and global.
	Registry string
}

// String renders the source, e.g. "remote(fractary)".
func (s Source) String() string {
	if s.Tier == TierRemote && s.Registry != "" {
		return fmt.Sprintf("%s(%s)", s.Tier, s.Registry)
	}
	return string(s.Tier)
}

// LocalSource is the source of project-local artifacts.
func LocalSource() Source { return Source{Tier: TierLocal} }

// GlobalSource is the source of cached artifacts.
func GlobalSource() Source { return Source{Tier: TierGlobal} }

// RemoteSourceOf is the source of an artifact downloaded from the named registry.
func RemoteSourceOf(registry string) Source { return Source{Tier: TierRemote, Registry: registry} }

// ResolvedArtifact is the snapshot produced by one resolution call.
type ResolvedArtifact struct {
	Definition *Definition
	Source     Source
	// Version is the resolved exact version.
	Version string
	// Origin is the file path or URL the definition was read from.
	Origin string
}

// Ref returns the kind/name pair of the artifact.
func (a *ResolvedArtifact) Ref() Ref {
	return Ref{Kind: a.Definition.Kind, Name: a.Definition.Name}
}

// String renders the artifact as name@version from source.
func (a *ResolvedArtifact) String() string {
	return fmt.Sprintf("%s@%s (%s)", a.Definition.Name, a.Version, a.Source)
}
