package domain

import (
	"regexp"
	"strings"

	"go.trai.ch/zerr"
)

// LatestConstraint is the implicit constraint of an unversioned identifier.
const LatestConstraint = "latest"

var namePattern = regexp.MustCompile(`^(@[A-Za-z0-9][A-Za-z0-9._-]*/)?[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Identifier is a parsed name[@constraint] reference.
type Identifier struct {
	Name       string
	Constraint string
}

// String renders the identifier back to its textual form.
func (id Identifier) String() string {
	if id.Constraint == "" || id.Constraint == LatestConstraint {
		return id.Name
	}
	return id.Name + "@" + id.Constraint
}

// IsLatest reports whether the identifier carries no explicit constraint.
func (id Identifier) IsLatest() bool {
	return IsLatest(id.Constraint)
}

// ParseIdentifier splits a raw identifier on the last '@' that is not at index 0,
// so "@org/pkg@1.2.3" yields ("@org/pkg", "1.2.3") and "pkg" yields ("pkg", "latest").
func ParseIdentifier(raw string) (Identifier, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identifier{}, ErrEmptyIdentifier
	}

	idx := strings.LastIndex(raw, "@")
	if idx <= 0 {
		return Identifier{Name: raw, Constraint: LatestConstraint}, nil
	}

	constraint := strings.TrimSpace(raw[idx+1:])
	if constraint == "" {
		constraint = LatestConstraint
	}
	return Identifier{Name: raw[:idx], Constraint: constraint}, nil
}

// ValidateName checks that a name is usable as a directory key.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return zerr.With(ErrInvalidName, "name", name)
	}
	return nil
}
