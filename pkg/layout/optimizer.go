package layout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/grid"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

var (
	// ErrNilData is returned by [New] without a document.
	ErrNilData = errors.New("mind map data is nil")

	// ErrNotInitialized is returned by operations that need
	// [Optimizer.Initialize] to have been called.
	ErrNotInitialized = errors.New("optimizer not initialized")

	// ErrGraphChanged is returned by [Optimizer.Extract] when the graph no
	// longer has the nodes the optimizer was initialized with.
	ErrGraphChanged = errors.New("graph changed since initialize")

	// ErrInvalidAspectRatio is returned by [Optimizer.Initialize] for a
	// non-positive or non-finite aspect ratio.
	ErrInvalidAspectRatio = errors.New("aspect ratio must be positive")

	// ErrInvalidMinEdgeLength is returned by [Optimizer.Initialize] for a
	// negative or non-finite minimum edge length.
	ErrInvalidMinEdgeLength = errors.New("minimum edge length must not be negative")

	// ErrPositionCount is returned by [Optimizer.Evaluate] when the number of
	// positions does not match the number of nodes.
	ErrPositionCount = errors.New("position count does not match node count")
)

// OptimizationInfo reports the outcome of [Optimizer.Optimize].
type OptimizationInfo struct {
	// InitialCost is the cost of the starting arrangement: the caller's
	// positions snapped to the grid when one is enabled. It can differ from
	// the cost of the unsnapped input.
	InitialCost float64 `json:"initial_cost"`
	FinalCost   float64 `json:"final_cost"`
	// Changes counts accepted moves.
	Changes    int  `json:"changes"`
	Iterations int  `json:"iterations"`
	Canceled   bool `json:"canceled"`
}

// Improvement returns InitialCost - FinalCost.
func (i OptimizationInfo) Improvement() float64 { return i.InitialCost - i.FinalCost }

// ProgressCallback receives the fraction of the search completed, in [0, 1].
// It is called on the goroutine running [Optimizer.Optimize] and should
// return quickly.
type ProgressCallback func(progress float64)

// Optimizer searches for a better arrangement of a mind map's nodes.
//
// Its lifecycle is New, Initialize, Optimize, then Extract. An Optimizer is
// not safe for concurrent use.
type Optimizer struct {
	data     *mindmap.Data
	grid     grid.Grid
	opts     Options
	progress ProgressCallback

	initialized bool
	optimized   bool
	aspectRatio float64
	minEdge     float64

	sizes    []graph.Size
	edges    [][2]int
	original []graph.Point
	best     []graph.Point
	eval     *evaluator
}

// New binds an optimizer to data and g. A nil grid disables snapping.
func New(data *mindmap.Data, g grid.Grid, opts Options) (*Optimizer, error) {
	if data == nil {
		return nil, ErrNilData
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		g = grid.Disabled
	}
	return &Optimizer{data: data, grid: g, opts: opts}, nil
}

// SetProgressCallback sets the progress callback. Pass nil to disable it.
func (o *Optimizer) SetProgressCallback(cb ProgressCallback) {
	o.progress = cb
}

// Initialize snapshots the graph and records the layout targets: the desired
// width/height ratio of the drawing and the minimum distance between the
// centers of connected nodes. Calling it again discards any previous result.
func (o *Optimizer) Initialize(aspectRatio, minEdgeLength float64) error {
	if !(aspectRatio > 0) || math.IsInf(aspectRatio, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidAspectRatio, aspectRatio)
	}
	if !(minEdgeLength >= 0) || math.IsInf(minEdgeLength, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidMinEdgeLength, minEdgeLength)
	}

	g := o.data.Graph()
	nodes := g.Nodes()
	o.sizes = make([]graph.Size, len(nodes))
	o.original = make([]graph.Point, len(nodes))
	for i, n := range nodes {
		o.sizes[i] = n.Size
		o.original[i] = n.Location
	}
	o.edges = o.edges[:0]
	for _, e := range g.Edges() {
		o.edges = append(o.edges, [2]int{e.From, e.To})
	}

	o.aspectRatio = aspectRatio
	o.minEdge = minEdgeLength
	o.eval = newEvaluator(o.sizes, o.edges, aspectRatio, minEdgeLength, o.opts.Weights)
	o.best = slices.Clone(o.original)
	o.initialized = true
	o.optimized = false
	return nil
}

// Optimize runs the search and returns its report. It blocks until the search
// converges, reaches the iteration limit or ctx is canceled.
//
// Without a prior Initialize, and for graphs with fewer than two nodes or no
// edges, Optimize makes no moves and returns a zero report.
func (o *Optimizer) Optimize(ctx context.Context) OptimizationInfo {
	var info OptimizationInfo
	if !o.initialized {
		return info
	}
	if ctx == nil {
		ctx = context.Background()
	}
	defer o.report(1)

	if len(o.original) < 2 || len(o.edges) == 0 {
		// Nothing to search, but Extract must still honor the grid.
		o.best = o.seed()
		o.optimized = true
		return info
	}

	pos := o.seed()
	current := o.eval.total(pos)
	bestCost := current
	best := slices.Clone(pos)
	info.InitialCost = current

	scale := o.scale()
	t0 := o.opts.InitialTemperature * scale
	p := &proposer{
		rng:     rand.New(rand.NewPCG(o.opts.Seed, o.opts.Seed^0xdeadbeef)),
		grid:    o.grid,
		sizes:   o.sizes,
		edges:   o.edges,
		minEdge: o.minEdge,
		scale:   scale,
		swapP:   o.opts.SwapProbability,
		jumpP:   o.opts.NeighborJumpProbability,
	}

	maxIter := o.opts.MaxIterations
	stale := 0
	for k := 0; k < maxIter; k++ {
		select {
		case <-ctx.Done():
			info.Canceled = true
		default:
		}
		if info.Canceled {
			break
		}
		info.Iterations++

		progress := float64(k) / float64(maxIter)
		temperature := t0 * (1 - progress)

		m := p.propose(pos, progress)
		before := o.eval.local(pos, m.nodes)
		m.apply(pos)
		delta := o.eval.local(pos, m.nodes) - before

		if delta <= 0 || (temperature > 0 && p.rng.Float64() < math.Exp(-delta/temperature)) {
			info.Changes++
			current += delta
			if current < bestCost {
				// resync to avoid drift from accumulated deltas
				current = o.eval.total(pos)
				if current < bestCost {
					bestCost = current
					copy(best, pos)
					stale = 0
				}
			}
		} else {
			m.revert(pos)
		}

		stale++
		if o.opts.ConvergenceWindow > 0 && stale >= o.opts.ConvergenceWindow {
			break
		}
		if (k+1)%o.opts.ProgressInterval == 0 {
			o.report(float64(k+1) / float64(maxIter))
		}
	}

	info.FinalCost = bestCost
	o.best = best
	o.optimized = true
	return info
}

// Extract writes the best arrangement into the graph the optimizer was bound
// to. Before Optimize it writes the original positions back. Calling it more
// than once has the same effect as calling it once.
func (o *Optimizer) Extract() error {
	if !o.initialized {
		return ErrNotInitialized
	}
	nodes := o.data.Graph().Nodes()
	if len(nodes) != len(o.best) {
		return fmt.Errorf("%w: had %d nodes, now %d", ErrGraphChanged, len(o.best), len(nodes))
	}
	positions := o.original
	if o.optimized {
		positions = o.best
	}
	for i, n := range nodes {
		n.Location = positions[i]
	}
	return nil
}

// Evaluate returns the cost of the given node positions under the targets
// set by Initialize.
func (o *Optimizer) Evaluate(positions []graph.Point) (CostBreakdown, error) {
	if !o.initialized {
		return CostBreakdown{}, ErrNotInitialized
	}
	if len(positions) != len(o.sizes) {
		return CostBreakdown{}, fmt.Errorf("%w: got %d, want %d", ErrPositionCount, len(positions), len(o.sizes))
	}
	return o.eval.breakdown(positions), nil
}

// Positions returns the arrangement Extract would write.
func (o *Optimizer) Positions() []graph.Point {
	if o.optimized {
		return slices.Clone(o.best)
	}
	return slices.Clone(o.original)
}

// seed returns the starting arrangement: the current positions, snapped when
// the grid is enabled.
func (o *Optimizer) seed() []graph.Point {
	pos := slices.Clone(o.original)
	if o.grid.Enabled() {
		for i := range pos {
			pos[i] = o.grid.Snap(pos[i])
		}
	}
	return pos
}

// scale is the typical move distance: the minimum edge length or the mean
// node half extent, whichever is larger.
func (o *Optimizer) scale() float64 {
	var extent float64
	for _, s := range o.sizes {
		extent += (s.Width + s.Height) / 4
	}
	extent /= float64(len(o.sizes))
	return math.Max(1, math.Max(o.minEdge, extent))
}

func (o *Optimizer) report(progress float64) {
	if o.progress != nil {
		o.progress(progress)
	}
}
