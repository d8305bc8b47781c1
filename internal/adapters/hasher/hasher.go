// Package hasher computes canonical integrity digests of definitions.
package hasher

import (
	// Registers sha256 for go-digest.
	_ "crypto/sha256"
	"encoding/json"
	"strings"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"github.com/opencontainers/go-digest"
	"go.trai.ch/zerr"
)

var _ ports.IntegrityHasher = (*Hasher)(nil)

// Hasher implements ports.IntegrityHasher with sha256 over canonical JSON.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Digest returns "sha256:<hex>" of the definition's canonical form. Map keys are
// emitted sorted at every depth, so key order and formatting of the source document
// do not affect the result.
func (h *Hasher) Digest(def *domain.Definition) (string, error) {
	canonical, err := Canonicalize(def.Payload())
	if err != nil {
		return "", zerr.With(err, "name", def.Name)
	}
	return digest.Canonical.FromBytes(canonical).String(), nil
}

// Verify checks data against checksum. A bare hex checksum is read as sha256.
func (h *Hasher) Verify(data []byte, checksum string) error {
	if !strings.Contains(checksum, ":") {
		checksum = string(digest.SHA256) + ":" + strings.ToLower(checksum)
	}
	expected, err := digest.Parse(checksum)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrChecksumMismatch.Error()), "expected", checksum)
	}

	actual := expected.Algorithm().FromBytes(data)
	if actual != expected {
		err := zerr.With(domain.ErrChecksumMismatch, "expected", expected.String())
		return zerr.With(err, "actual", actual.String())
	}
	return nil
}

// Canonicalize renders a normalized document as compact JSON with sorted keys.
func Canonicalize(doc map[string]any) ([]byte, error) {
	normalized := domain.NormalizeValue(doc)
	out, err := json.Marshal(normalized)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrDefinitionEncode.Error())
	}
	return out, nil
}
