// Package pkg provides the libraries behind the mindmap layout optimizer.
//
// # Overview
//
// Mindmap takes a mind map whose nodes have sizes and positions and moves the
// nodes so that connected nodes keep a minimum distance, nodes stop
// overlapping and the drawing approaches a target aspect ratio. The pkg
// directory is organized into four areas:
//
//  1. Domain: [graph], [grid], [mindmap] and [layout] hold the document model
//     and the optimizer
//  2. Formats: [snapshot] reads and writes JSON documents, [export] renders
//     DOT and SVG
//  3. Infrastructure: [cache], [config], [errors] and [observability]
//  4. Orchestration: [pipeline] ties the stages together; [server] exposes
//     them over HTTP
//
// # Architecture
//
// The typical data flow:
//
//	snapshot.json
//	     ↓
//	[snapshot] package (decode into mindmap.Data)
//	     ↓
//	[pipeline] package (cache lookup, optimizer run, cache store)
//	     ↓
//	[layout] package (search for a cheaper arrangement)
//	     ↓
//	[snapshot] or [export] (JSON, DOT or SVG output)
//
// # Quick Start
//
//	data, _ := snapshot.ReadFile("plan.json")
//
//	opt, _ := layout.New(data, grid.New(20), layout.DefaultOptions())
//	_ = opt.Initialize(1.5, 100)
//	info := opt.Optimize(ctx)
//	_ = opt.Extract()
//
//	fmt.Printf("cost %.1f -> %.1f\n", info.InitialCost, info.FinalCost)
//	_ = snapshot.WriteFile(data, "plan.optimized.json")
//
// The [pipeline] package adds caching and hooks on top of the same steps and
// is what the CLI and the layout service use.
package pkg
