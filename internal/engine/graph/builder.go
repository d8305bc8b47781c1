// Package graph expands resolved artifacts into dependency graphs and flattens
// definition inheritance.
package graph

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// RootRequester names the caller in conflict reports for versions fixed by a root.
const RootRequester = "(root)"

// Builder expands artifacts into dependency graphs through a resolver.
type Builder struct {
	resolver    ports.ArtifactResolver
	logger      ports.Logger
	tracer      ports.Tracer
	concurrency int
	memo        *memo
}

// NewBuilder creates a Builder that resolves at most concurrency dependencies at once.
func NewBuilder(resolver ports.ArtifactResolver, logger ports.Logger, tracer ports.Tracer, concurrency int) *Builder {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Builder{
		resolver:    resolver,
		logger:      logger,
		tracer:      tracer,
		concurrency: concurrency,
		memo:        newMemo(),
	}
}

// request is one dependency edge awaiting resolution.
type request struct {
	ref        domain.Ref
	identifier string
	constraint string
	by         string
}

// chosen is the version a name was pinned to and who pinned it.
type chosen struct {
	version string
	by      string
}

// Build resolves the transitive dependencies of roots level by level and returns the
// validated graph. Siblings within a level resolve concurrently; the version of each
// name is fixed by its first request in breadth-first order (parent name order, then
// each parent's dependencies sorted by kind and name). A definition's extends parent
// counts as a dependency.
func (b *Builder) Build(ctx context.Context, roots ...*domain.ResolvedArtifact) (*domain.DependencyGraph, error) {
	ctx, span := b.tracer.Start(ctx, "graph.build", ports.WithAttribute("roots", len(roots)))
	defer span.End()

	g, err := b.build(ctx, roots)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	plan := make([]string, 0, g.Len())
	for node := range g.Walk() {
		plan = append(plan, node.Artifact.Definition.Name+"@"+node.Artifact.Version)
	}
	b.tracer.EmitPlan(ctx, plan)
	span.SetAttribute("nodes", g.Len())
	return g, nil
}

func (b *Builder) build(ctx context.Context, roots []*domain.ResolvedArtifact) (*domain.DependencyGraph, error) {
	g := domain.NewDependencyGraph()
	pinned := make(map[domain.Ref]chosen)

	var frontier []*domain.DependencyNode
	for _, root := range roots {
		node, added := g.AddNode(root)
		g.AddRoot(node.Ref)
		if !added {
			continue
		}
		pinned[node.Ref] = chosen{version: root.Version, by: RootRequester}
		frontier = append(frontier, node)
	}

	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slices.SortFunc(frontier, func(a, c *domain.DependencyNode) int {
			return cmp.Compare(a.Ref.String(), c.Ref.String())
		})

		var pending []request
		waiting := make(map[domain.Ref][]request)
		for _, node := range frontier {
			for _, req := range requests(node.Artifact) {
				g.AddEdge(node.Ref, req.ref)
				if pin, ok := pinned[req.ref]; ok {
					if err := checkPin(req, pin); err != nil {
						return nil, err
					}
					continue
				}
				if _, ok := waiting[req.ref]; !ok {
					pending = append(pending, req)
				}
				waiting[req.ref] = append(waiting[req.ref], req)
			}
		}

		resolved, err := b.resolveAll(ctx, pending)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for i, req := range pending {
			art := resolved[i]
			pin := chosen{version: art.Version, by: req.by}
			for _, other := range waiting[req.ref][1:] {
				if err := checkPin(other, pin); err != nil {
					return nil, err
				}
			}
			pinned[req.ref] = pin
			node, _ := g.AddNode(art)
			frontier = append(frontier, node)
			b.logger.Debug(fmt.Sprintf("%s requires %s, resolved %s", req.by, req.identifier, art))
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// resolveAll resolves requests concurrently, returning results in request order.
func (b *Builder) resolveAll(ctx context.Context, reqs []request) ([]*domain.ResolvedArtifact, error) {
	out := make([]*domain.ResolvedArtifact, len(reqs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(b.concurrency)
	for i, req := range reqs {
		eg.Go(func() error {
			art, err := b.memo.resolve(egCtx, b.resolver, req.ref.Kind, req.identifier)
			if err != nil {
				return zerr.With(err, "required_by", req.by)
			}
			out[i] = art
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// requests lists the outgoing edges of an artifact: its extends parent first, then its
// dependencies sorted by kind and name as the definition holds them.
func requests(art *domain.ResolvedArtifact) []request {
	def := art.Definition
	by := def.Name + "@" + art.Version
	out := make([]request, 0, len(def.Dependencies)+1)

	if def.Extends != "" {
		// Parsed when the definition was built.
		id, _ := domain.ParseIdentifier(def.Extends)
		out = append(out, request{
			ref:        domain.Ref{Kind: def.Kind, Name: id.Name},
			identifier: id.String(),
			constraint: id.Constraint,
			by:         by,
		})
	}
	for _, dep := range def.Dependencies {
		out = append(out, request{
			ref:        dep.Ref,
			identifier: dep.Identifier(),
			constraint: dep.Constraint,
			by:         by,
		})
	}
	return out
}

// checkPin rejects a request whose constraint the pinned version does not satisfy.
func checkPin(req request, pin chosen) error {
	if domain.IsLatest(req.constraint) {
		return nil
	}
	ok, err := domain.Satisfies(pin.version, req.constraint)
	if err != nil {
		return zerr.With(err, "required_by", req.by)
	}
	if ok {
		return nil
	}
	err = zerr.With(domain.ErrVersionConflict, "dependency", req.ref.String())
	err = zerr.With(err, "chosen", pin.version)
	err = zerr.With(err, "chosen_by", pin.by)
	err = zerr.With(err, "constraint", req.constraint)
	return zerr.With(err, "required_by", req.by)
}
