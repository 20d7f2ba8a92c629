package graph_test

import (
	"fmt"

	"github.com/matzehuels/mindmap/pkg/graph"
)

func Example() {
	g := graph.New()

	root := graph.NewNode()
	root.Text = "Plan"
	child := graph.NewNode()
	child.Text = "Budget"
	child.Location = graph.Point{X: 300, Y: 0}

	a := g.AddNode(root)
	b := g.AddNode(child)
	_ = g.AddEdge(graph.NewEdge(a, b))

	fmt.Println("nodes:", g.NumNodes(), "edges:", g.NumEdges())
	fmt.Println("connected:", g.AreDirectlyConnected(b, a))
	// Output:
	// nodes: 2 edges: 1
	// connected: true
}

func ExampleGraph_DeleteNode() {
	g := graph.New()
	for _, text := range []string{"a", "b", "c"} {
		n := graph.NewNode()
		n.Text = text
		g.AddNode(n)
	}
	_ = g.AddEdge(graph.NewEdge(0, 1))
	_ = g.AddEdge(graph.NewEdge(1, 2))

	g.DeleteNode(0)
	for _, n := range g.Nodes() {
		fmt.Println(n.Index, n.Text)
	}
	fmt.Println("edges:", g.NumEdges())
	// Output:
	// 0 b
	// 1 c
	// edges: 1
}

func ExampleNearestEdgePoints() {
	a := graph.NewNode()
	b := graph.NewNode()
	b.Location = graph.Point{X: 500, Y: 0}

	pa, pb := graph.NearestEdgePoints(a, b)
	fmt.Println(pa.Location.X > 0, pb.Location.X < 0, pa.IsCorner)
	// Output: true true false
}
