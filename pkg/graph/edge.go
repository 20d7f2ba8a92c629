package graph

// ArrowMode controls which arrowheads an edge is drawn with.
type ArrowMode int

const (
	ArrowSingle ArrowMode = iota
	ArrowDouble
	ArrowHidden
)

// String returns the lowercase name of the mode.
func (m ArrowMode) String() string {
	switch m {
	case ArrowDouble:
		return "double"
	case ArrowHidden:
		return "hidden"
	default:
		return "single"
	}
}

// ParseArrowMode is the inverse of [ArrowMode.String]. Unknown names map to
// ArrowSingle.
func ParseArrowMode(s string) ArrowMode {
	switch s {
	case "double":
		return ArrowDouble
	case "hidden":
		return ArrowHidden
	default:
		return ArrowSingle
	}
}

// Edge connects two nodes of the owning graph by index.
//
// From and To give the drawing direction. Connectivity queries treat edges as
// undirected.
type Edge struct {
	From          int
	To            int
	Text          string
	Dashed        bool
	Arrow         ArrowMode
	ReversedArrow bool
}

// NewEdge returns an edge from node index from to node index to.
func NewEdge(from, to int) *Edge {
	return &Edge{From: from, To: to}
}

// Touches reports whether the edge has index as one of its endpoints.
func (e *Edge) Touches(index int) bool {
	return e.From == index || e.To == index
}

// Connects reports whether the edge joins a and b in either direction.
func (e *Edge) Connects(a, b int) bool {
	return (e.From == a && e.To == b) || (e.From == b && e.To == a)
}

// Other returns the endpoint opposite to index.
func (e *Edge) Other(index int) int {
	if e.From == index {
		return e.To
	}
	return e.From
}
