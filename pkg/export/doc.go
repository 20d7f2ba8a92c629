// Package export turns laid out mind maps into diagrams.
//
// [ToDOT] writes Graphviz DOT source in which every node is pinned at its
// mind map position, so Graphviz only routes edges and draws shapes:
//
//	dot := export.ToDOT(data, export.Options{})
//	svg, err := export.RenderSVG(ctx, dot, export.EngineNeato)
//
// Coordinates are scene units treated as points. The y axis is flipped because
// Graphviz grows upwards while the scene grows downwards.
//
// SVG rendering runs Graphviz in-process through
// [github.com/goccy/go-graphviz].
package export
