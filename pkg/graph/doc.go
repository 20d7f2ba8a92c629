// Package graph provides the node/edge container behind a mind map document.
//
// # Overview
//
// A [Graph] owns an insertion-ordered sequence of [Node] handles and a
// sequence of [Edge] handles. Nodes are addressed by a dense integer index:
// [Graph.AddNode] assigns the next free index and [Graph.DeleteNode] re-indexes
// the remaining nodes so indices always form the contiguous range [0, n).
// Edges refer to their endpoints by index and are kept consistent on every
// structural change.
//
// # Basic Usage
//
//	g := graph.New()
//	a := g.AddNode(graph.NewNode())
//	b := g.AddNode(graph.NewNode())
//	_ = g.AddEdge(graph.NewEdge(a, b))
//
//	g.AreDirectlyConnected(a, b) // true
//	g.NodesConnectedToNode(a)    // [node b]
//
// # Adjacency
//
// The graph keeps an adjacency index (node index -> incident edge positions)
// instead of letting nodes hold references to their edges. The index is
// maintained on AddEdge and rebuilt after deletions, so node handles can be
// dropped by the graph without dangling edge references.
//
// # Geometry
//
// Node location is the node's center. [RecomputeGeometry] derives the eight
// connection points around a node's perimeter from its size and
// [NearestEdgePoints] picks the shortest visual connector between two nodes.
// Both are pure functions; callers invoke them after changing a node's size.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The layout optimizer reads
// a private snapshot and writes back only when asked to, so the graph can be
// shared with a renderer as long as writes are externally synchronized.
package graph
