package graph_test

import (
	"context"
	"slices"
	"sync/atomic"
	"testing"

	"github.com/fractary/forge/internal/adapters/telemetry"
	"github.com/fractary/forge/internal/core/domain"
	"github.com/fractary/forge/internal/core/ports/mocks"
	"github.com/fractary/forge/internal/engine/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

// registry is an in-memory resolver keyed by name, holding one or more versions.
type registry struct {
	t        *testing.T
	versions map[string][]*domain.ResolvedArtifact
	calls    atomic.Int32
}

func newRegistry(t *testing.T) *registry {
	return &registry{t: t, versions: make(map[string][]*domain.ResolvedArtifact)}
}

func (r *registry) add(name, version string, extra map[string]any) *domain.ResolvedArtifact {
	r.t.Helper()
	doc := map[string]any{"name": name, "version": version}
	for k, v := range extra {
		doc[k] = v
	}
	def, err := domain.NewDefinition(domain.KindAgent, doc)
	require.NoError(r.t, err)
	art := &domain.ResolvedArtifact{Definition: def, Source: domain.GlobalSource(), Version: version}
	r.versions[name] = append(r.versions[name], art)
	return art
}

func (r *registry) resolve(_ context.Context, _ domain.Kind, identifier string) (*domain.ResolvedArtifact, error) {
	r.calls.Add(1)
	id, err := domain.ParseIdentifier(identifier)
	if err != nil {
		return nil, err
	}
	arts := r.versions[id.Name]
	versions := make([]string, 0, len(arts))
	for _, a := range arts {
		versions = append(versions, a.Version)
	}
	best, err := domain.BestMatch(versions, id.Constraint)
	if err != nil {
		return nil, err
	}
	for _, a := range arts {
		if a.Version == best {
			return a, nil
		}
	}
	return nil, zerr.With(domain.ErrNotFound, "identifier", identifier)
}

func newBuilder(t *testing.T, reg *registry) *graph.Builder {
	t.Helper()
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockArtifactResolver(ctrl)
	resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(reg.resolve).AnyTimes()
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return graph.NewBuilder(resolver, logger, telemetry.NewNoOpTracer(), 4)
}

func deps(names ...string) map[string]any {
	list := make([]any, 0, len(names))
	for _, n := range names {
		list = append(list, n)
	}
	return map[string]any{"dependencies": list}
}

func names(g *domain.DependencyGraph) []string {
	var out []string
	for node := range g.Walk() {
		out = append(out, node.Ref.Name)
	}
	return out
}

func TestBuild_Diamond(t *testing.T) {
	reg := newRegistry(t)
	a := reg.add("a", "1.0.0", deps("b", "c"))
	reg.add("b", "1.0.0", deps("d@^1.0.0"))
	reg.add("c", "1.0.0", deps("d"))
	reg.add("d", "1.0.0", nil)

	g, err := newBuilder(t, reg).Build(context.Background(), a)
	require.NoError(t, err)

	assert.Equal(t, 4, g.Len())
	order := names(g)
	assert.Equal(t, "a", order[len(order)-1])
	assert.Less(t, slices.Index(order, "d"), slices.Index(order, "b"))
	assert.Less(t, slices.Index(order, "d"), slices.Index(order, "c"))
	assert.Equal(t, int32(3), reg.calls.Load(), "d resolves once")
}

func TestBuild_Cycle(t *testing.T) {
	reg := newRegistry(t)
	a := reg.add("A", "1.0.0", deps("B"))
	reg.add("B", "1.0.0", deps("C"))
	reg.add("C", "1.0.0", deps("A"))

	_, err := newBuilder(t, reg).Build(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCircularDependency.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C", "A"}, zErr.Metadata()["chain"])
}

func TestBuild_VersionConflict(t *testing.T) {
	reg := newRegistry(t)
	a := reg.add("a", "1.0.0", deps("b", "c"))
	reg.add("b", "1.0.0", deps("d@^1.0.0"))
	reg.add("c", "1.0.0", deps("d@^2.0.0"))
	reg.add("d", "1.4.0", nil)
	reg.add("d", "2.1.0", nil)

	_, err := newBuilder(t, reg).Build(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrVersionConflict.Error())

	meta := err.(*zerr.Error).Metadata()
	assert.Equal(t, "1.4.0", meta["chosen"])
	assert.Equal(t, "b@1.0.0", meta["chosen_by"])
	assert.Equal(t, "c@1.0.0", meta["required_by"])
	assert.Equal(t, "^2.0.0", meta["constraint"])
}

func TestBuild_ConflictWithRoot(t *testing.T) {
	reg := newRegistry(t)
	a := reg.add("a", "1.0.0", deps("b"))
	reg.add("b", "1.0.0", deps("a@^2.0.0"))

	_, err := newBuilder(t, reg).Build(context.Background(), a)
	require.Error(t, err)
	assert.Equal(t, graph.RootRequester, err.(*zerr.Error).Metadata()["chosen_by"])
}

func TestBuild_MissingDependency(t *testing.T) {
	reg := newRegistry(t)
	a := reg.add("a", "1.0.0", deps("ghost"))

	_, err := newBuilder(t, reg).Build(context.Background(), a)
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNotFound.Error())
	assert.Equal(t, "a@1.0.0", err.(*zerr.Error).Metadata()["required_by"])
}

func TestBuild_SharedRoots(t *testing.T) {
	reg := newRegistry(t)
	a := reg.add("a", "1.0.0", deps("shared"))
	b := reg.add("b", "1.0.0", deps("shared"))
	reg.add("shared", "1.0.0", nil)

	g, err := newBuilder(t, reg).Build(context.Background(), a, b)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.Len(t, g.Roots(), 2)
}

func TestBuild_ExtendsIsAnEdge(t *testing.T) {
	reg := newRegistry(t)
	child := reg.add("child", "1.0.0", map[string]any{"extends": "base@^1.0.0"})
	reg.add("base", "1.2.0", nil)

	g, err := newBuilder(t, reg).Build(context.Background(), child)
	require.NoError(t, err)
	node, ok := g.Node(domain.Ref{Kind: domain.KindAgent, Name: "child"})
	require.True(t, ok)
	assert.Equal(t, []domain.Ref{{Kind: domain.KindAgent, Name: "base"}}, node.Dependencies)
}

func TestBuild_Canceled(t *testing.T) {
	reg := newRegistry(t)
	a := reg.add("a", "1.0.0", deps("b"))
	reg.add("b", "1.0.0", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newBuilder(t, reg).Build(ctx, a)
	require.ErrorIs(t, err, context.Canceled)
}

func TestBuild_EdgesSortedByName(t *testing.T) {
	reg := newRegistry(t)
	extra := deps("zeta", "alpha", "mid")
	extra["extends"] = "base"
	root := reg.add("root", "1.0.0", extra)
	for _, n := range []string{"base", "zeta", "alpha", "mid"} {
		reg.add(n, "1.0.0", nil)
	}

	g, err := newBuilder(t, reg).Build(context.Background(), root)
	require.NoError(t, err)
	node, ok := g.Node(domain.Ref{Kind: domain.KindAgent, Name: "root"})
	require.True(t, ok)
	assert.Equal(t, []domain.Ref{
		{Kind: domain.KindAgent, Name: "base"},
		{Kind: domain.KindAgent, Name: "alpha"},
		{Kind: domain.KindAgent, Name: "mid"},
		{Kind: domain.KindAgent, Name: "zeta"},
	}, node.Dependencies)
}
