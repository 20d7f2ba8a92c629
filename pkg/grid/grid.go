// Package grid provides the snapping grid used when placing mind map nodes.
//
// The layout optimizer only depends on the [Grid] interface; [Uniform] is the
// square grid the editor offers, where an interval of zero disables snapping.
package grid

import (
	"math"

	"github.com/matzehuels/mindmap/pkg/graph"
)

// Grid snaps scene coordinates.
type Grid interface {
	// Size returns the grid interval in scene units. Zero means disabled.
	Size() int
	// Enabled reports whether positions should be snapped.
	Enabled() bool
	// Snap returns p moved to the nearest grid point. When the grid is
	// disabled p is returned unchanged.
	Snap(p graph.Point) graph.Point
}

// Uniform is a square grid with the same interval on both axes.
type Uniform struct {
	Interval int
}

// Disabled is a grid that never snaps.
var Disabled Grid = Uniform{}

// New returns a uniform grid. A non-positive interval yields a disabled grid.
func New(interval int) Uniform {
	if interval < 0 {
		interval = 0
	}
	return Uniform{Interval: interval}
}

// Size implements [Grid].
func (u Uniform) Size() int { return u.Interval }

// Enabled implements [Grid].
func (u Uniform) Enabled() bool { return u.Interval > 0 }

// Snap implements [Grid].
func (u Uniform) Snap(p graph.Point) graph.Point {
	if !u.Enabled() {
		return p
	}
	return graph.Point{X: u.SnapValue(p.X), Y: u.SnapValue(p.Y)}
}

// SnapValue rounds v to the nearest multiple of the interval. Halfway values
// round away from zero.
func (u Uniform) SnapValue(v float64) float64 {
	if !u.Enabled() {
		return v
	}
	step := float64(u.Interval)
	return math.Round(v/step) * step
}

// OnGrid reports whether p already lies on a grid point of g. A disabled grid
// accepts every point.
func OnGrid(g Grid, p graph.Point) bool {
	if !g.Enabled() {
		return true
	}
	step := float64(g.Size())
	return isMultiple(p.X, step) && isMultiple(p.Y, step)
}

func isMultiple(v, step float64) bool {
	r := math.Mod(math.Abs(v), step)
	return r < 1e-9 || step-r < 1e-9
}
