package domain

import (
	"fmt"
	"strings"
)

// Outcome describes why a tier or source did not produce the artifact.
type Outcome string

const (
	OutcomeNotFound          Outcome = "not_found"
	OutcomeNoMatch           Outcome = "no_matching_version"
	OutcomeLocalMismatch     Outcome = "local_constraint_mismatch"
	OutcomeUnavailable       Outcome = "unavailable"
	OutcomeTimeout           Outcome = "timeout"
	OutcomeChecksumMismatch  Outcome = "checksum_mismatch"
	OutcomeIntegrityMismatch Outcome = "integrity_mismatch"
	OutcomeInvalid           Outcome = "invalid_definition"
	OutcomeOffline           Outcome = "offline"
)

// Attempt records one tier or source consulted during a resolution.
type Attempt struct {
	Tier Tier
	// Registry is the remote source name for remote attempts.
	Registry string
	Outcome  Outcome
	Detail   string
}

// String renders the attempt, e.g. "remote(fractary): timeout (context deadline exceeded)".
func (a Attempt) String() string {
	where := string(a.Tier)
	if a.Registry != "" {
		where = fmt.Sprintf("%s(%s)", a.Tier, a.Registry)
	}
	if a.Detail == "" {
		return fmt.Sprintf("%s: %s", where, a.Outcome)
	}
	return fmt.Sprintf("%s: %s (%s)", where, a.Outcome, a.Detail)
}

// Attempts is the ordered diagnostic trail of a resolution.
type Attempts []Attempt

// String renders one attempt per line.
func (as Attempts) String() string {
	lines := make([]string, 0, len(as))
	for _, a := range as {
		lines = append(lines, a.String())
	}
	return strings.Join(lines, "\n")
}

// Any reports whether some attempt ended with outcome.
func (as Attempts) Any(outcome Outcome) bool {
	for _, a := range as {
		if a.Outcome == outcome {
			return true
		}
	}
	return false
}

// AllRemoteUnreachable reports whether at least one remote was consulted and every
// remote attempt failed for connectivity reasons.
func (as Attempts) AllRemoteUnreachable() bool {
	remote := 0
	for _, a := range as {
		if a.Tier != TierRemote {
			continue
		}
		remote++
		if a.Outcome != OutcomeUnavailable && a.Outcome != OutcomeTimeout {
			return false
		}
	}
	return remote > 0
}
