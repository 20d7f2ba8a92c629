package graph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From index
	// does not refer to a node in the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To index
	// does not refer to a node in the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrSelfLoop is returned by [Graph.AddEdge] for an edge from a node to
	// itself.
	ErrSelfLoop = errors.New("edge endpoints must differ")

	// ErrNonContiguousIndex is returned by [Graph.Validate] when node indices
	// do not form the range [0, n).
	ErrNonContiguousIndex = errors.New("node indices are not contiguous")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node that is not in the graph.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrInvalidColor is returned by [ParseColor] for malformed input.
	ErrInvalidColor = errors.New("invalid color")
)

// Graph owns the nodes and edges of one mind map document.
//
// The zero value is an empty, usable graph.
type Graph struct {
	nodes    []*Node
	edges    []*Edge
	incident [][]int // node index -> positions in edges
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{}
}

// Clear removes all nodes and edges.
func (g *Graph) Clear() {
	g.nodes = nil
	g.edges = nil
	g.incident = nil
}

// AddNode appends n, assigns it the next contiguous index and returns that
// index.
func (g *Graph) AddNode(n *Node) int {
	n.Index = len(g.nodes)
	g.nodes = append(g.nodes, n)
	g.incident = append(g.incident, nil)
	return n.Index
}

// DeleteNode removes the node at index together with every edge touching it,
// then re-indexes the remaining nodes and edge endpoints so indices stay
// contiguous. It reports false and leaves the graph untouched when index is
// out of range.
func (g *Graph) DeleteNode(index int) bool {
	if index < 0 || index >= len(g.nodes) {
		return false
	}

	g.nodes[index].Index = UnassignedIndex
	g.nodes = slices.Delete(g.nodes, index, index+1)
	for i, n := range g.nodes {
		n.Index = i
	}

	g.edges = slices.DeleteFunc(g.edges, func(e *Edge) bool { return e.Touches(index) })
	for _, e := range g.edges {
		if e.From > index {
			e.From--
		}
		if e.To > index {
			e.To--
		}
	}

	g.rebuildIncident()
	return true
}

// AddEdge appends e. Both endpoints must already be in the graph.
func (g *Graph) AddEdge(e *Edge) error {
	if !g.has(e.From) {
		return fmt.Errorf("%w: %d", ErrUnknownSourceNode, e.From)
	}
	if !g.has(e.To) {
		return fmt.Errorf("%w: %d", ErrUnknownTargetNode, e.To)
	}
	if e.From == e.To {
		return ErrSelfLoop
	}
	pos := len(g.edges)
	g.edges = append(g.edges, e)
	g.incident[e.From] = append(g.incident[e.From], pos)
	g.incident[e.To] = append(g.incident[e.To], pos)
	return nil
}

// DeleteEdge removes every edge joining index0 and index1, in either
// direction, and returns how many were removed.
func (g *Graph) DeleteEdge(index0, index1 int) int {
	before := len(g.edges)
	g.edges = slices.DeleteFunc(g.edges, func(e *Edge) bool { return e.Connects(index0, index1) })
	removed := before - len(g.edges)
	if removed > 0 {
		g.rebuildIncident()
	}
	return removed
}

// AreDirectlyConnected reports whether an edge joins a and b in either
// direction.
func (g *Graph) AreDirectlyConnected(a, b int) bool {
	if !g.has(a) {
		return false
	}
	for _, pos := range g.incident[a] {
		if g.edges[pos].Connects(a, b) {
			return true
		}
	}
	return false
}

// EdgesFromNode returns the edges whose From endpoint is index.
func (g *Graph) EdgesFromNode(index int) []*Edge {
	var out []*Edge
	for _, e := range g.IncidentEdges(index) {
		if e.From == index {
			out = append(out, e)
		}
	}
	return out
}

// EdgesToNode returns the edges whose To endpoint is index.
func (g *Graph) EdgesToNode(index int) []*Edge {
	var out []*Edge
	for _, e := range g.IncidentEdges(index) {
		if e.To == index {
			out = append(out, e)
		}
	}
	return out
}

// IncidentEdges returns every edge touching index, in insertion order.
func (g *Graph) IncidentEdges(index int) []*Edge {
	if !g.has(index) {
		return nil
	}
	out := make([]*Edge, len(g.incident[index]))
	for i, pos := range g.incident[index] {
		out[i] = g.edges[pos]
	}
	return out
}

// NodesConnectedToNode returns the distinct neighbors of index in edge order.
func (g *Graph) NodesConnectedToNode(index int) []*Node {
	if !g.has(index) {
		return nil
	}
	seen := make(map[int]bool)
	var out []*Node
	for _, pos := range g.incident[index] {
		other := g.edges[pos].Other(index)
		if !seen[other] {
			seen[other] = true
			out = append(out, g.nodes[other])
		}
	}
	return out
}

// Degree returns the number of edges touching index.
func (g *Graph) Degree(index int) int {
	if !g.has(index) {
		return 0
	}
	return len(g.incident[index])
}

// Node returns the node at index and true, or nil and false when out of range.
func (g *Graph) Node(index int) (*Node, bool) {
	if !g.has(index) {
		return nil, false
	}
	return g.nodes[index], true
}

// Nodes returns the nodes in index order. The slice is a copy; the nodes are
// the graph's handles.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns the edges in insertion order. The slice is a copy; the edges
// are the graph's handles.
func (g *Graph) Edges() []*Edge { return slices.Clone(g.edges) }

// NumNodes returns the number of nodes.
func (g *Graph) NumNodes() int { return len(g.nodes) }

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return len(g.edges) }

// Validate checks that node indices are contiguous and every edge references
// nodes in the graph.
func (g *Graph) Validate() error {
	for i, n := range g.nodes {
		if n.Index != i {
			return fmt.Errorf("%w: node at %d has index %d", ErrNonContiguousIndex, i, n.Index)
		}
	}
	for _, e := range g.edges {
		if !g.has(e.From) || !g.has(e.To) {
			return fmt.Errorf("%w: %d-%d", ErrInvalidEdgeEndpoint, e.From, e.To)
		}
	}
	return nil
}

func (g *Graph) has(index int) bool {
	return index >= 0 && index < len(g.nodes)
}

func (g *Graph) rebuildIncident() {
	g.incident = make([][]int, len(g.nodes))
	for pos, e := range g.edges {
		g.incident[e.From] = append(g.incident[e.From], pos)
		g.incident[e.To] = append(g.incident[e.To], pos)
	}
}
