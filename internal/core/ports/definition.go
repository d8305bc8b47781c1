package ports

import "github.com/fractary/forge/internal/core/domain"

// DefinitionCodec decodes and encodes definition documents.
//
//go:generate go run go.uber.org/mock/mockgen -source=definition.go -destination=mocks/mock_definition.go -package=mocks
type DefinitionCodec interface {
	// Decode reads a raw document without validating it.
	Decode(data []byte) (map[string]any, error)

	// Parse decodes and validates a definition of the given kind.
	Parse(kind domain.Kind, data []byte) (*domain.Definition, error)

	// Encode serializes a document with stable key order.
	Encode(doc map[string]any) ([]byte, error)
}
