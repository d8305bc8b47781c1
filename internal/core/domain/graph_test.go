package domain_test

import (
	"testing"

	"github.com/fractary/forge/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

func artifact(t *testing.T, name string) *domain.ResolvedArtifact {
	t.Helper()
	def, err := domain.NewDefinition(domain.KindAgent, map[string]any{"name": name, "version": "1.0.0"})
	require.NoError(t, err)
	return &domain.ResolvedArtifact{Definition: def, Source: domain.LocalSource(), Version: "1.0.0"}
}

func ref(name string) domain.Ref {
	return domain.Ref{Kind: domain.KindAgent, Name: name}
}

func TestDependencyGraph_Diamond(t *testing.T) {
	g := domain.NewDependencyGraph()
	for _, n := range []string{"A", "B", "C", "D"} {
		g.AddNode(artifact(t, n))
	}
	g.AddRoot(ref("A"))
	g.AddEdge(ref("A"), ref("B"))
	g.AddEdge(ref("A"), ref("C"))
	g.AddEdge(ref("B"), ref("D"))
	g.AddEdge(ref("C"), ref("D"))

	require.NoError(t, g.Validate())

	var order []string
	for n := range g.Walk() {
		order = append(order, n.Ref.Name)
	}
	assert.Equal(t, []string{"D", "B", "C", "A"}, order)
	assert.Equal(t, 4, g.Len())
}

func TestDependencyGraph_Cycle(t *testing.T) {
	g := domain.NewDependencyGraph()
	for _, n := range []string{"A", "B", "C"} {
		g.AddNode(artifact(t, n))
	}
	g.AddRoot(ref("A"))
	g.AddEdge(ref("A"), ref("B"))
	g.AddEdge(ref("B"), ref("C"))
	g.AddEdge(ref("C"), ref("A"))

	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrCircularDependency.Error())

	zErr, ok := err.(*zerr.Error)
	require.True(t, ok, "expected *zerr.Error, got %T", err)
	meta := zErr.Metadata()
	assert.Equal(t, []string{"A", "B", "C", "A"}, meta["chain"])
	assert.Equal(t, "A -> B -> C -> A", meta["cycle"])
}

func TestDependencyGraph_SelfLoop(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddNode(artifact(t, "A"))
	g.AddRoot(ref("A"))
	g.AddEdge(ref("A"), ref("A"))

	err := g.Validate()
	require.Error(t, err)
	zErr, ok := err.(*zerr.Error)
	require.True(t, ok)
	assert.Equal(t, []string{"A", "A"}, zErr.Metadata()["chain"])
}

func TestDependencyGraph_MissingNode(t *testing.T) {
	g := domain.NewDependencyGraph()
	g.AddNode(artifact(t, "A"))
	g.AddRoot(ref("A"))
	g.AddEdge(ref("A"), ref("ghost"))

	err := g.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrMissingDependency.Error())
}

func TestDependencyGraph_AddNodeIsIdempotent(t *testing.T) {
	g := domain.NewDependencyGraph()
	_, added := g.AddNode(artifact(t, "A"))
	assert.True(t, added)
	_, added = g.AddNode(artifact(t, "A"))
	assert.False(t, added)
	assert.Equal(t, 1, g.Len())
}
