// Package mindmap holds a mind map document: its graph plus the document-wide
// style settings.
package mindmap

import "github.com/matzehuels/mindmap/pkg/graph"

// Document defaults.
var (
	DefaultBackgroundColor = graph.Color{R: 0xba, G: 0xbd, B: 0xb6, A: 0xff}
	DefaultEdgeColor       = graph.Color{R: 0, G: 0, B: 0, A: 200}
	DefaultGridColor       = graph.Color{R: 0xa0, G: 0xa0, B: 0xa0, A: 0xff}
)

const (
	DefaultEdgeWidth = 2.0
	DefaultTextSize  = graph.DefaultTextSize
)

// Data is one mind map document.
//
// Data is shared by pointer between the caller and the layout optimizer. It is
// not safe for concurrent mutation.
type Data struct {
	Name     string
	FileName string
	Version  string

	BackgroundColor graph.Color
	EdgeColor       graph.Color
	GridColor       graph.Color
	EdgeWidth       float64
	TextSize        int
	CornerRadius    int

	graph *graph.Graph
}

// New returns an empty document with default styling.
func New(name string) *Data {
	return &Data{
		Name:            name,
		BackgroundColor: DefaultBackgroundColor,
		EdgeColor:       DefaultEdgeColor,
		GridColor:       DefaultGridColor,
		EdgeWidth:       DefaultEdgeWidth,
		TextSize:        DefaultTextSize,
		CornerRadius:    graph.DefaultCornerRadius,
		graph:           graph.New(),
	}
}

// Graph returns the document's graph. It is never nil.
func (d *Data) Graph() *graph.Graph {
	if d.graph == nil {
		d.graph = graph.New()
	}
	return d.graph
}

// Clone returns a deep copy. Nodes and edges of the copy are new handles, so
// moving a node in the clone does not affect d.
func (d *Data) Clone() *Data {
	c := *d
	c.graph = copyGraph(d.Graph())
	return &c
}

func copyGraph(src *graph.Graph) *graph.Graph {
	dst := graph.New()
	for _, n := range src.Nodes() {
		dst.AddNode(n.Copy())
	}
	for _, e := range src.Edges() {
		ec := *e
		// Endpoints are valid in src, and dst has the same indices.
		_ = dst.AddEdge(&ec)
	}
	return dst
}
