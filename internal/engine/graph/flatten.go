package graph

import (
	"context"
	"slices"

	"github.com/fractary/forge/internal/core/domain"
	"go.trai.ch/zerr"
)

// Flatten applies the extends chain of art and returns a copy whose definition is the
// parents overlaid root first. The result no longer declares extends. Artifacts without
// a parent are returned unchanged.
func (b *Builder) Flatten(ctx context.Context, art *domain.ResolvedArtifact) (*domain.ResolvedArtifact, error) {
	if art.Definition.Extends == "" {
		return art, nil
	}

	chain := []*domain.ResolvedArtifact{art}
	path := []domain.Ref{art.Ref()}
	for cur := art; cur.Definition.Extends != ""; {
		id, err := domain.ParseIdentifier(cur.Definition.Extends)
		if err != nil {
			return nil, zerr.With(err, "name", cur.Definition.Name)
		}
		ref := domain.Ref{Kind: cur.Definition.Kind, Name: id.Name}
		if slices.Contains(path, ref) {
			return nil, domain.CycleError(path, ref)
		}

		parent, err := b.memo.resolve(ctx, b.resolver, ref.Kind, id.String())
		if err != nil {
			return nil, zerr.With(err, "extended_by", cur.Definition.Name)
		}
		chain = append(chain, parent)
		path = append(path, ref)
		cur = parent
	}

	doc := map[string]any{}
	for _, a := range slices.Backward(chain) {
		doc = domain.Overlay(doc, a.Definition.Payload())
	}
	delete(doc, domain.FieldExtends)

	def, err := domain.NewDefinition(art.Definition.Kind, doc)
	if err != nil {
		return nil, zerr.With(err, "name", art.Definition.Name)
	}
	def = def.WithFork(art.Definition.Fork)

	out := *art
	out.Definition = def
	return &out, nil
}
