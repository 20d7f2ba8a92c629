package layout

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/mindmap/pkg/graph"
)

// CostBreakdown splits the cost of an arrangement into its weighted terms.
type CostBreakdown struct {
	EdgeLength float64 `json:"edge_length"`
	ShortEdge  float64 `json:"short_edge"`
	Aspect     float64 `json:"aspect"`
	Overlap    float64 `json:"overlap"`
	Total      float64 `json:"total"`
}

// evaluator computes the cost of node positions for a fixed set of sizes and
// edges. Positions are indexed like the snapshot nodes.
type evaluator struct {
	sizes       []graph.Size
	edges       [][2]int
	incident    [][]int // node -> edge ids
	aspectRatio float64
	minEdge     float64
	w           Weights

	// scratch for delta evaluation
	edgeMark []int
	epoch    int
}

func newEvaluator(sizes []graph.Size, edges [][2]int, aspectRatio, minEdge float64, w Weights) *evaluator {
	incident := make([][]int, len(sizes))
	for k, e := range edges {
		incident[e[0]] = append(incident[e[0]], k)
		incident[e[1]] = append(incident[e[1]], k)
	}
	return &evaluator{
		sizes:       sizes,
		edges:       edges,
		incident:    incident,
		aspectRatio: aspectRatio,
		minEdge:     minEdge,
		w:           w,
		edgeMark:    make([]int, len(edges)),
	}
}

func (e *evaluator) breakdown(pos []graph.Point) CostBreakdown {
	var c CostBreakdown
	for k := range e.edges {
		l, s := e.edgeCost(pos, k)
		c.EdgeLength += l
		c.ShortEdge += s
	}
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			c.Overlap += e.overlapCost(pos, i, j)
		}
	}
	c.Aspect = e.aspectCost(pos)
	c.Total = c.EdgeLength + c.ShortEdge + c.Aspect + c.Overlap
	return c
}

func (e *evaluator) total(pos []graph.Point) float64 {
	return e.breakdown(pos).Total
}

// local returns the part of the cost that depends on the nodes in moved: their
// edges, their overlaps and the aspect term. The difference of local before
// and after a move equals the difference of the total cost.
func (e *evaluator) local(pos []graph.Point, moved []int) float64 {
	e.epoch++
	var sum float64
	for _, i := range moved {
		for _, k := range e.incident[i] {
			if e.edgeMark[k] == e.epoch {
				continue
			}
			e.edgeMark[k] = e.epoch
			l, s := e.edgeCost(pos, k)
			sum += l + s
		}
	}
	for a, i := range moved {
		for j := range pos {
			// pairs with earlier moved nodes were already counted
			if j == i || slices.Contains(moved[:a], j) {
				continue
			}
			sum += e.overlapCost(pos, i, j)
		}
	}
	return sum + e.aspectCost(pos)
}

func (e *evaluator) edgeCost(pos []graph.Point, k int) (length, short float64) {
	a, b := e.edges[k][0], e.edges[k][1]
	d := r2.Norm(r2.Sub(pos[a], pos[b]))
	length = e.w.EdgeLength * d
	if d < e.minEdge {
		short = e.w.ShortEdge*(e.minEdge-d) + e.w.ShortEdgeStep
	}
	return length, short
}

func (e *evaluator) overlapCost(pos []graph.Point, i, j int) float64 {
	ri := graph.RectAround(pos[i], e.sizes[i])
	rj := graph.RectAround(pos[j], e.sizes[j])
	px := math.Min(ri.Max.X, rj.Max.X) - math.Max(ri.Min.X, rj.Min.X)
	py := math.Min(ri.Max.Y, rj.Max.Y) - math.Max(ri.Min.Y, rj.Min.Y)
	if px <= 0 || py <= 0 {
		return 0
	}
	return e.w.Overlap * math.Min(px, py)
}

func (e *evaluator) aspectCost(pos []graph.Point) float64 {
	if len(pos) == 0 {
		return 0
	}
	box := graph.RectAround(pos[0], e.sizes[0])
	for i := 1; i < len(pos); i++ {
		box = box.Union(graph.RectAround(pos[i], e.sizes[i]))
	}
	return e.w.AspectRatio * math.Abs(box.Width()-e.aspectRatio*box.Height())
}
