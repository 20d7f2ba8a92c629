package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/grid"
)

type moveKind int

const (
	moveDisplace moveKind = iota
	moveSwap
	moveNeighborJump
)

// move is a proposed change of at most two node positions.
type move struct {
	kind  moveKind
	nodes []int
	to    []graph.Point
	from  []graph.Point
}

func (m *move) apply(pos []graph.Point) {
	for k, i := range m.nodes {
		pos[i] = m.to[k]
	}
}

func (m *move) revert(pos []graph.Point) {
	for k, i := range m.nodes {
		pos[i] = m.from[k]
	}
}

// proposer draws random moves. It reuses its move value between calls.
type proposer struct {
	rng      *rand.Rand
	grid     grid.Grid
	sizes    []graph.Size
	edges    [][2]int
	minEdge  float64
	scale    float64
	swapP    float64
	jumpP    float64
	scratch  move
	nodeBuf  [2]int
	pointBuf [4]graph.Point
}

func (p *proposer) propose(pos []graph.Point, progress float64) *move {
	m := &p.scratch
	m.nodes = p.nodeBuf[:0]
	m.to = p.pointBuf[0:0:2]
	m.from = p.pointBuf[2:2:4]

	r := p.rng.Float64()
	switch {
	case r < p.swapP:
		p.swap(m, pos)
	case r < p.swapP+p.jumpP && len(p.edges) > 0:
		p.neighborJump(m, pos)
	default:
		p.displace(m, pos, progress)
	}
	return m
}

func (p *proposer) displace(m *move, pos []graph.Point, progress float64) {
	i := p.rng.IntN(len(pos))
	radius := p.scale * (1 - 0.9*progress)
	offset := graph.Point{X: p.rng.NormFloat64() * radius, Y: p.rng.NormFloat64() * radius}
	p.set(m, moveDisplace, pos, i, r2.Add(pos[i], offset))
}

func (p *proposer) swap(m *move, pos []graph.Point) {
	i := p.rng.IntN(len(pos))
	j := p.rng.IntN(len(pos) - 1)
	if j >= i {
		j++
	}
	m.kind = moveSwap
	m.nodes = append(m.nodes, i, j)
	m.from = append(m.from, pos[i], pos[j])
	m.to = append(m.to, pos[j], pos[i])
}

// neighborJump moves one endpoint of a random edge to one of the eight
// compass positions around the other endpoint, just clear of it.
func (p *proposer) neighborJump(m *move, pos []graph.Point) {
	e := p.edges[p.rng.IntN(len(p.edges))]
	i, j := e[0], e[1]
	if p.rng.IntN(2) == 0 {
		i, j = j, i
	}
	angle := float64(p.rng.IntN(8)) * math.Pi / 4
	margin := p.rng.Float64() * p.minEdge * 0.5
	dx := math.Max(p.minEdge, (p.sizes[i].Width+p.sizes[j].Width)/2+margin)
	dy := math.Max(p.minEdge, (p.sizes[i].Height+p.sizes[j].Height)/2+margin)
	target := graph.Point{X: pos[j].X + math.Cos(angle)*dx, Y: pos[j].Y + math.Sin(angle)*dy}
	p.set(m, moveNeighborJump, pos, i, target)
}

func (p *proposer) set(m *move, kind moveKind, pos []graph.Point, i int, to graph.Point) {
	m.kind = kind
	m.nodes = append(m.nodes, i)
	m.from = append(m.from, pos[i])
	m.to = append(m.to, p.grid.Snap(to))
}
