// Package layout rearranges the nodes of a mind map.
//
// # Overview
//
// An [Optimizer] is bound to a [mindmap.Data] and a [grid.Grid]. It takes a
// snapshot of the node positions, searches for a better arrangement with
// simulated annealing and, on request, writes the result back:
//
//	opt, err := layout.New(data, grid.New(20), layout.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	if err := opt.Initialize(16.0/9.0, 50); err != nil {
//	    return err
//	}
//	info := opt.Optimize(ctx)
//	if info.FinalCost < info.InitialCost {
//	    _ = opt.Extract()
//	}
//
// Nothing is written to the graph until [Optimizer.Extract] is called, so a
// result can be discarded by simply dropping the optimizer.
//
// # Cost
//
// The cost of an arrangement is a weighted sum of:
//
//   - the length of every edge, measured between node centers
//   - a penalty for each edge shorter than the minimum edge length, linear in
//     the shortfall plus a constant step
//   - the deviation of the bounding box of all node rectangles from the target
//     aspect ratio, as |width - ratio*height|
//   - the overlap depth of every pair of intersecting node rectangles
//
// The weights live in [Weights] and are part of [Options].
//
// # Search
//
// Each iteration proposes one of three moves: displace a node by a random
// offset that shrinks as the search progresses, swap the positions of two
// nodes, or place a node next to one of its neighbors. Proposed positions
// are snapped when the grid is enabled. Moves that do not increase the cost
// are always accepted; worse moves are accepted with the Metropolis
// probability at a linearly decreasing temperature. The best arrangement seen
// is kept, so the reported final cost never exceeds the initial cost.
//
// The search is deterministic for a given [Options.Seed].
//
// # Progress and Cancellation
//
// [Optimizer.Optimize] runs on the calling goroutine. It reports progress in
// [0, 1] through the callback set with [Optimizer.SetProgressCallback] and
// stops early when its context is canceled, returning the best arrangement
// found so far.
package layout
