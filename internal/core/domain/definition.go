package domain

import (
	"fmt"
	"sort"
	"time"

	"go.trai.ch/zerr"
)

// Well-known definition fields.
const (
	FieldName         = "name"
	FieldVersion      = "version"
	FieldKind         = "kind"
	FieldDescription  = "description"
	FieldExtends      = "extends"
	FieldDependencies = "dependencies"
	FieldTools        = "tools"
)

// Dependency is a declared edge from a definition to another artifact.
type Dependency struct {
	Ref        Ref
	Constraint string
}

// Identifier renders the dependency as name[@constraint].
func (d Dependency) Identifier() string {
	return Identifier{Name: d.Ref.Name, Constraint: d.Constraint}.String()
}

// ForkRecord is the upstream provenance of a forked local definition.
type ForkRecord struct {
	SourceName    string     `json:"sourceName"`
	SourceKind    Kind       `json:"sourceKind"`
	SourceVersion string     `json:"sourceVersion"`
	ForkedAt      time.Time  `json:"forkedAt"`
	MergedAt      *time.Time `json:"mergedAt,omitempty"`
}

// Definition is a validated artifact document. It is immutable: accessors hand out copies.
type Definition struct {
	Name         string
	Version      string
	Kind         Kind
	Description  string
	Extends      string
	Dependencies []Dependency
	// Fork is set on local definitions created by a fork.
	Fork *ForkRecord

	payload map[string]any
}

// NewDefinition validates a decoded document and extracts its identity and dependencies.
func NewDefinition(kind Kind, payload map[string]any) (*Definition, error) {
	if payload == nil {
		return nil, zerr.With(ErrDefinitionInvalid, "reason", "empty document")
	}
	doc, _ := NormalizeValue(payload).(map[string]any)

	def := &Definition{Kind: kind, payload: doc}

	name, err := stringField(doc, FieldName, true)
	if err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	def.Name = name

	version, err := stringField(doc, FieldVersion, false)
	if err != nil {
		return nil, zerr.With(err, "hint", "quote numeric versions, e.g. version: \"1.0.0\"")
	}
	if version == "" {
		return nil, zerr.With(ErrMissingVersion, "name", name)
	}
	if err := ValidateVersion(version); err != nil {
		return nil, zerr.With(err, "name", name)
	}
	def.Version = version

	if declared, err := stringField(doc, FieldKind, false); err != nil {
		return nil, err
	} else if declared != "" && declared != string(kind) {
		return nil, zerr.With(zerr.With(ErrDefinitionInvalid, "reason", "kind mismatch"), "kind", declared)
	}

	if def.Description, err = stringField(doc, FieldDescription, false); err != nil {
		return nil, err
	}

	if def.Extends, err = stringField(doc, FieldExtends, false); err != nil {
		return nil, err
	}
	if def.Extends != "" {
		id, err := ParseIdentifier(def.Extends)
		if err != nil {
			return nil, err
		}
		if err := ValidateConstraint(id.Constraint); err != nil {
			return nil, err
		}
	}

	if def.Dependencies, err = extractDependencies(kind, doc); err != nil {
		return nil, zerr.With(err, "name", name)
	}

	return def, nil
}

// Payload returns a deep copy of the underlying document.
func (d *Definition) Payload() map[string]any {
	out, _ := CloneValue(d.payload).(map[string]any)
	return out
}

// Ref returns the kind/name pair of the definition.
func (d *Definition) Ref() Ref {
	return Ref{Kind: d.Kind, Name: d.Name}
}

// WithFork returns a copy of the definition carrying the given fork record.
func (d *Definition) WithFork(rec *ForkRecord) *Definition {
	cp := *d
	cp.Dependencies = append([]Dependency(nil), d.Dependencies...)
	if rec != nil {
		r := *rec
		cp.Fork = &r
	} else {
		cp.Fork = nil
	}
	return &cp
}

func stringField(doc map[string]any, key string, required bool) (string, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		if required {
			return "", zerr.With(ErrDefinitionInvalid, "missing_field", key)
		}
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		err := zerr.With(ErrDefinitionInvalid, "field", key)
		return "", zerr.With(err, "reason", fmt.Sprintf("expected string, got %T", raw))
	}
	return s, nil
}

// extractDependencies reads "dependencies" (flat map, per-kind map, or list of
// identifiers) and, for agents, string entries of "tools".
func extractDependencies(kind Kind, doc map[string]any) ([]Dependency, error) {
	seen := make(map[Ref]string)
	var deps []Dependency

	addDep := func(k Kind, name, constraint string) error {
		if err := ValidateName(name); err != nil {
			return err
		}
		if constraint == "" {
			constraint = LatestConstraint
		}
		if err := ValidateConstraint(constraint); err != nil {
			return err
		}
		ref := Ref{Kind: k, Name: name}
		if prev, dup := seen[ref]; dup {
			if prev == constraint {
				return nil
			}
			err := zerr.With(ErrDefinitionInvalid, "reason", "dependency declared twice with different constraints")
			return zerr.With(err, "dependency", ref.String())
		}
		seen[ref] = constraint
		deps = append(deps, Dependency{Ref: ref, Constraint: constraint})
		return nil
	}
	add := func(k Kind, identifier string) error {
		id, err := ParseIdentifier(identifier)
		if err != nil {
			return err
		}
		return addDep(k, id.Name, id.Constraint)
	}

	switch v := doc[FieldDependencies].(type) {
	case nil:
	case map[string]any:
		for key, val := range v {
			if nested, ok := val.(map[string]any); ok {
				k, err := ParseKind(key)
				if err != nil {
					return nil, err
				}
				for name, c := range nested {
					if err := addDep(k, name, fmt.Sprint(valueOrEmpty(c))); err != nil {
						return nil, err
					}
				}
				continue
			}
			if err := addDep(kind, key, fmt.Sprint(valueOrEmpty(val))); err != nil {
				return nil, err
			}
		}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, zerr.With(ErrDefinitionInvalid, "field", FieldDependencies)
			}
			if err := add(kind, s); err != nil {
				return nil, err
			}
		}
	default:
		return nil, zerr.With(ErrDefinitionInvalid, "field", FieldDependencies)
	}

	if kind == KindAgent {
		if tools, ok := doc[FieldTools].([]any); ok {
			for _, item := range tools {
				if s, ok := item.(string); ok {
					if err := add(KindTool, s); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	sort.Slice(deps, func(i, j int) bool {
		if deps[i].Ref.Kind != deps[j].Ref.Kind {
			return deps[i].Ref.Kind < deps[j].Ref.Kind
		}
		return deps[i].Ref.Name < deps[j].Ref.Name
	})
	return deps, nil
}

func valueOrEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}
