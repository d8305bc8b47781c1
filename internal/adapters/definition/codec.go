// Package definition decodes and encodes agent and tool definition documents.
package definition

import (
	"bytes"
	"slices"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

var _ ports.DefinitionCodec = (*Codec)(nil)

// leadingKeys are emitted first, in this order, when encoding.
var leadingKeys = []string{
	domain.FieldName,
	domain.FieldVersion,
	domain.FieldKind,
	domain.FieldDescription,
	domain.FieldExtends,
}

// Codec implements ports.DefinitionCodec using YAML. JSON documents are accepted as well.
type Codec struct{}

// NewCodec creates a new Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Decode reads a raw document without validating it.
func (c *Codec) Decode(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, zerr.Wrap(err, domain.ErrDefinitionParse.Error())
	}
	if doc == nil {
		return nil, zerr.With(domain.ErrDefinitionParse, "reason", "document is empty")
	}
	out, _ := domain.NormalizeValue(doc).(map[string]any)
	return out, nil
}

// Parse decodes and validates a definition of the given kind.
func (c *Codec) Parse(kind domain.Kind, data []byte) (*domain.Definition, error) {
	doc, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	return domain.NewDefinition(kind, doc)
}

// Encode serializes a document. Identity fields come first, the rest in key order.
func (c *Codec) Encode(doc map[string]any) ([]byte, error) {
	root, err := mappingNode(doc, true)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrDefinitionEncode.Error())
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, zerr.Wrap(err, domain.ErrDefinitionEncode.Error())
	}
	if err := enc.Close(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrDefinitionEncode.Error())
	}
	return buf.Bytes(), nil
}

func mappingNode(doc map[string]any, top bool) (*yaml.Node, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if top {
		ordered := make([]string, 0, len(keys))
		for _, k := range leadingKeys {
			if _, ok := doc[k]; ok {
				ordered = append(ordered, k)
			}
		}
		for _, k := range keys {
			if !slices.Contains(leadingKeys, k) {
				ordered = append(ordered, k)
			}
		}
		keys = ordered
	}

	for _, k := range keys {
		val, err := valueNode(doc[k])
		if err != nil {
			return nil, zerr.With(err, "key", k)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, val)
	}
	return node, nil
}

func valueNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case map[string]any:
		return mappingNode(t, false)
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			child, err := valueNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, child)
		}
		return node, nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(v); err != nil {
			return nil, err
		}
		return node, nil
	}
}
