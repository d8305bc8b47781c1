package domain

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"go.trai.ch/zerr"
)

// IsLatest reports whether a constraint means "highest available".
func IsLatest(constraint string) bool {
	c := strings.TrimSpace(constraint)
	return c == "" || c == LatestConstraint || c == "*"
}

// ValidateVersion checks that v is a strict semantic version (MAJOR.MINOR.PATCH[-pre][+build]).
func ValidateVersion(v string) error {
	if _, err := semver.StrictNewVersion(v); err != nil {
		return zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", v)
	}
	return nil
}

// ValidateConstraint checks that a constraint expression parses.
func ValidateConstraint(constraint string) error {
	_, err := parseConstraint(constraint)
	return err
}

func parseConstraint(constraint string) (*semver.Constraints, error) {
	if IsLatest(constraint) {
		return nil, nil
	}
	c, err := semver.NewConstraint(strings.TrimSpace(constraint))
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, ErrInvalidConstraint.Error()), "constraint", constraint)
	}
	return c, nil
}

// Satisfies reports whether version meets the constraint.
// Prerelease versions only satisfy constraints that reference a prerelease.
func Satisfies(version, constraint string) (bool, error) {
	c, err := parseConstraint(constraint)
	if err != nil {
		return false, err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", version)
	}
	if c == nil {
		return v.Prerelease() == "", nil
	}
	return c.Check(v), nil
}

// BestMatch returns the highest version in available that satisfies the constraint.
// An empty result means nothing matched; unparsable entries in available are ignored.
// "latest" and "*" select the highest stable version.
func BestMatch(available []string, constraint string) (string, error) {
	c, err := parseConstraint(constraint)
	if err != nil {
		return "", err
	}

	var (
		best    *semver.Version
		bestRaw string
	)
	for _, raw := range available {
		v, err := semver.NewVersion(raw)
		if err != nil {
			continue
		}
		if c == nil {
			if v.Prerelease() != "" {
				continue
			}
		} else if !c.Check(v) {
			continue
		}
		if best == nil || v.GreaterThan(best) {
			best = v
			bestRaw = raw
		}
	}
	return bestRaw, nil
}

// CompareVersions compares two versions, returning -1, 0 or 1.
func CompareVersions(a, b string) (int, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", a)
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, ErrInvalidVersion.Error()), "version", b)
	}
	return va.Compare(vb), nil
}
