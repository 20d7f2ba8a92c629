// Package pipeline runs the mind map layout stages shared by the CLI and the
// layout service.
//
// A run takes a document through two stages:
//
//  1. Optimize: rearrange the nodes with [layout.Optimizer] and write the
//     result back into the document
//  2. Export: serialize the laid out document as a snapshot, DOT or SVG
//
// Both stages are cached. Optimization is deterministic for a given
// snapshot, target and option set, so the optimized positions are stored
// under a key derived from all three and replayed on a hit.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.DefaultOptions()
//	opts.MinEdgeLength = 120
//	result, err := runner.Optimize(ctx, data, opts, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg, _, err := runner.Export(ctx, result.Data, pipeline.ExportOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/export"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultAspectRatio is the default width/height ratio of the drawing.
	DefaultAspectRatio = 1.5

	// DefaultMinEdgeLength is the default minimum distance between the
	// centers of connected nodes.
	DefaultMinEdgeLength = 100.0

	// DefaultGridSize disables grid snapping.
	DefaultGridSize = 0
)

// Format constants for export formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options configures an optimization run. It supports JSON for service
// requests.
type Options struct {
	AspectRatio   float64        `json:"aspect_ratio,omitempty"`
	MinEdgeLength float64        `json:"min_edge_length,omitempty"`
	GridSize      int            `json:"grid_size,omitempty"`
	Layout        layout.Options `json:"layout"`

	// Refresh skips the cache lookup. The result is still stored.
	Refresh bool `json:"refresh,omitempty"`
}

// DefaultOptions returns the default run configuration.
func DefaultOptions() Options {
	return Options{
		AspectRatio:   DefaultAspectRatio,
		MinEdgeLength: DefaultMinEdgeLength,
		GridSize:      DefaultGridSize,
		Layout:        layout.DefaultOptions(),
	}
}

// OptionsFromConfig builds run options from file settings.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		AspectRatio:   cfg.AspectRatio,
		MinEdgeLength: cfg.MinEdgeLength,
		GridSize:      cfg.GridSize,
		Layout:        cfg.Layout,
	}
}

// Validate checks the options. Errors carry [errors.ErrCodeInvalidOptions].
func (o Options) Validate() error {
	if !(o.AspectRatio > 0) || math.IsInf(o.AspectRatio, 0) {
		return errors.New(errors.ErrCodeInvalidOptions, "aspect ratio must be positive, got %v", o.AspectRatio)
	}
	if !(o.MinEdgeLength >= 0) || math.IsInf(o.MinEdgeLength, 0) {
		return errors.New(errors.ErrCodeInvalidOptions, "minimum edge length must not be negative, got %v", o.MinEdgeLength)
	}
	if o.GridSize < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "grid size must not be negative, got %d", o.GridSize)
	}
	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOptions, err, "layout options")
	}
	return nil
}

// ExportOptions configures the export stage.
type ExportOptions struct {
	// Format is one of FormatJSON, FormatDOT or FormatSVG.
	Format string `json:"format"`
	// Engine selects the Graphviz engine for SVG. Empty means neato.
	Engine      string `json:"engine,omitempty"`
	Transparent bool   `json:"transparent,omitempty"`
	ShowIndex   bool   `json:"show_index,omitempty"`
}

// Validate checks the export options.
func (o ExportOptions) Validate() error {
	if err := errors.ValidateFormat(o.Format); err != nil {
		return err
	}
	switch o.Engine {
	case "", export.EngineNeato, export.EngineDot:
		return nil
	default:
		return errors.New(errors.ErrCodeInvalidOptions, "unsupported engine %q", o.Engine)
	}
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outcome of an optimization run.
type Result struct {
	// Data is the document with the optimized positions applied. It is the
	// document passed to [Runner.Optimize], modified in place.
	Data *mindmap.Data

	// SnapshotHash is the content hash of the document before optimization.
	SnapshotHash string

	// Info is the optimizer report. On a cache hit it is the report of the
	// run that produced the cached positions.
	Info layout.OptimizationInfo

	// Cached reports whether the positions came from the cache.
	Cached bool

	// Duration is the wall time of the run.
	Duration time.Duration
}

// String summarizes the result for logs.
func (r *Result) String() string {
	return fmt.Sprintf("cost %.2f -> %.2f (%d changes, %d iterations, cached=%v)",
		r.Info.InitialCost, r.Info.FinalCost, r.Info.Changes, r.Info.Iterations, r.Cached)
}
