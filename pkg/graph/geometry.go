package graph

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// midpointBias pushes the four midpoints slightly outwards so that, at equal
// distance, corners lose against midpoints when choosing a connector.
const midpointBias = 0.1

// EdgePoint is a connection point on a node's perimeter, relative to its center.
type EdgePoint struct {
	Location Point
	IsCorner bool
}

// EdgePoints are the eight connection points of a node: four corners and four
// side midpoints, clockwise from the bottom-left corner.
type EdgePoints [8]EdgePoint

// RecomputeGeometry derives the connection points for a node of the given size.
func RecomputeGeometry(s Size) EdgePoints {
	w2 := s.Width * 0.5
	h2 := s.Height * 0.5
	return EdgePoints{
		{Location: Point{X: -w2, Y: h2}, IsCorner: true},
		{Location: Point{X: 0, Y: h2 + midpointBias}},
		{Location: Point{X: w2, Y: h2}, IsCorner: true},
		{Location: Point{X: w2 + midpointBias, Y: 0}},
		{Location: Point{X: w2, Y: -h2}, IsCorner: true},
		{Location: Point{X: 0, Y: -h2 - midpointBias}},
		{Location: Point{X: -w2, Y: -h2}, IsCorner: true},
		{Location: Point{X: -w2 - midpointBias, Y: 0}},
	}
}

// NearestEdgePoints returns the pair of connection points, one on a and one on
// b, with the shortest distance between them. Points are relative to each
// node's center.
func NearestEdgePoints(a, b *Node) (EdgePoint, EdgePoint) {
	best := math.MaxFloat64
	var pa, pb EdgePoint
	// 64 candidate pairs; brute force is fine.
	for _, p1 := range a.EdgePoints() {
		for _, p2 := range b.EdgePoints() {
			d := r2.Norm2(r2.Sub(r2.Add(a.Location, p1.Location), r2.Add(b.Location, p2.Location)))
			if d < best {
				best = d
				pa, pb = p1, p2
			}
		}
	}
	return pa, pb
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min, Max Point
}

// RectAround returns the rectangle of the given size centered on c.
func RectAround(c Point, s Size) Rect {
	half := Point{X: s.Width / 2, Y: s.Height / 2}
	return Rect{Min: r2.Sub(c, half), Max: r2.Add(c, half)}
}

// Width returns the horizontal extent of r.
func (r Rect) Width() float64 { return r.Max.X - r.Min.X }

// Height returns the vertical extent of r.
func (r Rect) Height() float64 { return r.Max.Y - r.Min.Y }

// Center returns the midpoint of r.
func (r Rect) Center() Point { return r2.Scale(0.5, r2.Add(r.Min, r.Max)) }

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Point{X: math.Min(r.Min.X, o.Min.X), Y: math.Min(r.Min.Y, o.Min.Y)},
		Max: Point{X: math.Max(r.Max.X, o.Max.X), Y: math.Max(r.Max.Y, o.Max.Y)},
	}
}

// Intersects reports whether r and o overlap with positive area.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X < o.Max.X && o.Min.X < r.Max.X && r.Min.Y < o.Max.Y && o.Min.Y < r.Max.Y
}

// BoundingBox returns the rectangle covering all given nodes. It returns the
// zero Rect and false when nodes is empty.
func BoundingBox(nodes []*Node) (Rect, bool) {
	if len(nodes) == 0 {
		return Rect{}, false
	}
	box := nodes[0].BoundingBox()
	for _, n := range nodes[1:] {
		box = box.Union(n.BoundingBox())
	}
	return box, true
}
