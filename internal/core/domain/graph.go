package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// DependencyNode is one artifact in a dependency graph.
type DependencyNode struct {
	Ref      Ref
	Artifact *ResolvedArtifact
	// Dependencies are the outgoing "depends on" edges, sorted by kind and name.
	Dependencies []Ref
}

// DependencyGraph is a directed graph of artifacts keyed by kind and name.
type DependencyGraph struct {
	roots []Ref
	nodes map[Ref]*DependencyNode
	order []Ref
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{nodes: make(map[Ref]*DependencyNode)}
}

// AddNode inserts a node for the artifact. It returns the existing node and false
// when the name is already present.
func (g *DependencyGraph) AddNode(a *ResolvedArtifact) (*DependencyNode, bool) {
	ref := a.Ref()
	if n, ok := g.nodes[ref]; ok {
		return n, false
	}
	n := &DependencyNode{Ref: ref, Artifact: a}
	g.nodes[ref] = n
	return n, true
}

// AddRoot marks a node as a traversal root.
func (g *DependencyGraph) AddRoot(ref Ref) {
	if !slices.Contains(g.roots, ref) {
		g.roots = append(g.roots, ref)
	}
}

// AddEdge records that from depends on to.
func (g *DependencyGraph) AddEdge(from, to Ref) {
	n, ok := g.nodes[from]
	if !ok {
		return
	}
	if !slices.Contains(n.Dependencies, to) {
		n.Dependencies = append(n.Dependencies, to)
	}
}

// Node returns the node of ref.
func (g *DependencyGraph) Node(ref Ref) (*DependencyNode, bool) {
	n, ok := g.nodes[ref]
	return n, ok
}

// Roots returns the traversal roots in insertion order.
func (g *DependencyGraph) Roots() []Ref {
	return slices.Clone(g.roots)
}

// Len returns the number of nodes.
func (g *DependencyGraph) Len() int {
	return len(g.nodes)
}

// Validate runs a depth-first traversal from the roots, rejecting any back-edge to a node
// on the active path with ErrCircularDependency. On success the topological order
// (dependencies first) is available through Walk.
func (g *DependencyGraph) Validate() error {
	g.order = make([]Ref, 0, len(g.nodes))
	state := make(map[Ref]int) // 0: unvisited, 1: visiting, 2: visited
	var path []Ref

	var visit func(u Ref) error
	visit = func(u Ref) error {
		state[u] = 1
		path = append(path, u)

		node, ok := g.nodes[u]
		if !ok {
			return zerr.With(ErrMissingDependency, "dependency", u.String())
		}

		for _, dep := range node.Dependencies {
			switch state[dep] {
			case 1:
				return CycleError(path, dep)
			case 0:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		state[u] = 2
		path = path[:len(path)-1]
		g.order = append(g.order, u)
		return nil
	}

	starts := slices.Clone(g.roots)
	rest := make([]Ref, 0, len(g.nodes))
	for ref := range g.nodes {
		if !slices.Contains(starts, ref) {
			rest = append(rest, ref)
		}
	}
	slices.SortFunc(rest, func(a, b Ref) int { return strings.Compare(a.String(), b.String()) })
	starts = append(starts, rest...)

	for _, ref := range starts {
		if state[ref] == 0 {
			if err := visit(ref); err != nil {
				return err
			}
		}
	}
	return nil
}

// Walk yields nodes with dependencies before their dependents.
// It assumes Validate has been called and returned nil.
func (g *DependencyGraph) Walk() iter.Seq[*DependencyNode] {
	return func(yield func(*DependencyNode) bool) {
		for _, ref := range g.order {
			if !yield(g.nodes[ref]) {
				return
			}
		}
	}
}

// CycleError builds ErrCircularDependency for a back-edge to dep while path is active.
// The chain starts at the first occurrence of dep, e.g. [A B C A].
func CycleError(path []Ref, dep Ref) error {
	start := slices.Index(path, dep)
	if start < 0 {
		start = 0
	}
	chain := make([]string, 0, len(path)-start+1)
	for _, ref := range path[start:] {
		chain = append(chain, ref.Name)
	}
	chain = append(chain, dep.Name)

	err := zerr.With(ErrCircularDependency, "chain", chain)
	return zerr.With(err, "cycle", strings.Join(chain, " -> "))
}
