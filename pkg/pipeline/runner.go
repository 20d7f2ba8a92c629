package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mindmap/pkg/cache"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/export"
	"github.com/matzehuels/mindmap/pkg/graph"
	"github.com/matzehuels/mindmap/pkg/grid"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/snapshot"
)

// Cache key types reported to [observability.CacheHooks].
const (
	keyTypeLayout = "layout"
	keyTypeExport = "export"
)

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the layout service use it.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// results. Multiple goroutines can use the same Runner with different
// documents.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// LayoutTTL is the lifetime of cached layouts. Zero means
	// [cache.LayoutTTL].
	LayoutTTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// cachedLayout is the cache entry of an optimization.
type cachedLayout struct {
	Positions []graph.Point           `json:"positions"`
	Info      layout.OptimizationInfo `json:"info"`
}

// Optimize rearranges the nodes of data and writes the result back into it.
//
// progress receives the search progress and may be nil. It is not called on
// a cache hit. A canceled run still applies the best arrangement found so
// far; the result reports Info.Canceled and is not cached.
func (r *Runner) Optimize(ctx context.Context, data *mindmap.Data, opts Options, progress layout.ProgressCallback) (*Result, error) {
	if data == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no document")
	}
	if err := errors.ValidateDocumentName(data.Name); err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := data.Graph().Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "document %q", data.Name)
	}

	start := time.Now()
	g := data.Graph()
	hooks := observability.Layout()
	hooks.OnOptimizeStart(ctx, g.NumNodes(), g.NumEdges())

	result, err := r.optimize(ctx, data, opts, progress)
	outcome := observability.OptimizeResult{
		Nodes:    g.NumNodes(),
		Edges:    g.NumEdges(),
		Duration: time.Since(start),
	}
	if result != nil {
		result.Duration = outcome.Duration
		outcome.InitialCost = result.Info.InitialCost
		outcome.FinalCost = result.Info.FinalCost
		outcome.Changes = result.Info.Changes
		outcome.Iterations = result.Info.Iterations
		outcome.Canceled = result.Info.Canceled
		outcome.Cached = result.Cached
	}
	hooks.OnOptimizeComplete(ctx, outcome, err)
	if err != nil {
		return nil, err
	}

	r.Logger.Info("optimized layout",
		"name", data.Name,
		"nodes", outcome.Nodes,
		"edges", outcome.Edges,
		"initial_cost", result.Info.InitialCost,
		"final_cost", result.Info.FinalCost,
		"changes", result.Info.Changes,
		"cached", result.Cached,
		"duration", result.Duration)
	return result, nil
}

func (r *Runner) optimize(ctx context.Context, data *mindmap.Data, opts Options, progress layout.ProgressCallback) (*Result, error) {
	snap, err := snapshot.Marshal(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "serialize document")
	}
	result := &Result{Data: data, SnapshotHash: cache.Hash(snap)}
	cacheKey := r.Keyer.LayoutKey(result.SnapshotHash, layoutKeyOpts(opts))

	if !opts.Refresh {
		if entry, ok := r.lookupLayout(ctx, cacheKey); ok && len(entry.Positions) == data.Graph().NumNodes() {
			for i, n := range data.Graph().Nodes() {
				n.Location = entry.Positions[i]
			}
			result.Info = entry.Info
			result.Cached = true
			return result, nil
		}
	}

	opt, err := layout.New(data, grid.New(opts.GridSize), opts.Layout)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "create optimizer")
	}
	if err := opt.Initialize(opts.AspectRatio, opts.MinEdgeLength); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOptions, err, "initialize optimizer")
	}
	opt.SetProgressCallback(progress)

	result.Info = opt.Optimize(ctx)
	if err := opt.Extract(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "apply layout")
	}
	if result.Info.Canceled {
		r.Logger.Warn("optimization canceled, keeping best layout so far",
			"iterations", result.Info.Iterations)
		return result, nil
	}

	entry := cachedLayout{Positions: opt.Positions(), Info: result.Info}
	r.storeLayout(ctx, cacheKey, entry)
	return result, nil
}

func (r *Runner) lookupLayout(ctx context.Context, key string) (cachedLayout, bool) {
	var entry cachedLayout
	raw, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache lookup failed", "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return entry, false
	}
	if err := json.Unmarshal(raw, &entry); err != nil {
		// Unreadable entries are recomputed and overwritten.
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
		return entry, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeLayout)
	return entry, true
}

func (r *Runner) storeLayout(ctx context.Context, key string, entry cachedLayout) {
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	ttl := r.LayoutTTL
	if ttl == 0 {
		ttl = cache.LayoutTTL
	}
	if err := r.Cache.Set(ctx, key, raw, ttl); err != nil {
		r.Logger.Debug("cache store failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(raw))
}

// Export serializes data in the requested format and reports whether the
// output came from the cache. Only SVG output is cached; the other formats
// are cheaper to produce than to look up.
func (r *Runner) Export(ctx context.Context, data *mindmap.Data, opts ExportOptions) ([]byte, bool, error) {
	if data == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "no document")
	}
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}

	switch opts.Format {
	case FormatJSON:
		out, err := snapshot.Marshal(data)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize document")
		}
		return out, false, nil
	case FormatDOT:
		return []byte(export.ToDOT(data, exportOptions(opts))), false, nil
	}

	snap, err := snapshot.Marshal(data)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize document")
	}
	cacheKey := r.Keyer.ExportKey(cache.Hash(snap), cache.ExportKeyOpts{
		Format:      opts.Format,
		Engine:      opts.Engine,
		Transparent: opts.Transparent,
		ShowIndex:   opts.ShowIndex,
	})
	if out, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypeExport)
		return out, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeExport)

	start := time.Now()
	out, err := export.RenderSVG(ctx, export.ToDOT(data, exportOptions(opts)), opts.Engine)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && stderrors.Is(err, ctxErr) {
			return nil, false, errors.Wrap(errors.GetCode(ctxErr), err, "render svg")
		}
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "render svg")
	}
	r.Logger.Debug("rendered svg", "bytes", len(out), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, cacheKey, out, cache.ExportTTL); err == nil {
		observability.Cache().OnCacheSet(ctx, keyTypeExport, len(out))
	}
	return out, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func layoutKeyOpts(opts Options) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		AspectRatio:   opts.AspectRatio,
		MinEdgeLength: opts.MinEdgeLength,
		GridSize:      opts.GridSize,
		Options:       opts.Layout,
	}
}

func exportOptions(opts ExportOptions) export.Options {
	return export.Options{Transparent: opts.Transparent, ShowIndex: opts.ShowIndex}
}
