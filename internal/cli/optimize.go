package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/config"
	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/pipeline"
	"github.com/matzehuels/mindmap/pkg/snapshot"
)

// optimizeFlags holds the optimize command line. Layout values only override
// the config file when the flag was given.
type optimizeFlags struct {
	output      string
	noCache     bool
	refresh     bool
	tui         bool
	aspectRatio float64
	minEdge     float64
	gridSize    int
	iterations  int
	seed        uint64
	temperature float64
}

// optimizeCommand creates the optimize command.
func (c *CLI) optimizeCommand() *cobra.Command {
	defaults := pipeline.DefaultOptions()
	f := optimizeFlags{
		aspectRatio: defaults.AspectRatio,
		minEdge:     defaults.MinEdgeLength,
		gridSize:    defaults.GridSize,
		iterations:  defaults.Layout.MaxIterations,
		seed:        defaults.Layout.Seed,
		temperature: defaults.Layout.InitialTemperature,
	}

	cmd := &cobra.Command{
		Use:   "optimize [snapshot.json]",
		Short: "Rearrange the nodes of a mind map",
		Long: `Rearrange the nodes of a mind map snapshot.

The optimizer moves nodes so that connected nodes are at least --min-edge
apart, nodes do not overlap and the drawing approaches --aspect-ratio. With
--grid, every node ends up on the grid.

The output format follows the extension of --output: .json writes a
snapshot, .dot and .svg render the optimized map.

Results are cached; the same snapshot with the same settings is laid out
only once.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := f.apply(cmd, pipeline.OptionsFromConfig(cfg))
			return c.runOptimize(cmd.Context(), cfg, args[0], opts, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.optimized.json)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&f.tui, "tui", false, "show an interactive progress bar")
	cmd.Flags().Float64Var(&f.aspectRatio, "aspect-ratio", f.aspectRatio, "target width/height ratio")
	cmd.Flags().Float64Var(&f.minEdge, "min-edge", f.minEdge, "minimum distance between connected node centers")
	cmd.Flags().IntVar(&f.gridSize, "grid", f.gridSize, "snap nodes to a grid of this size (0 disables)")
	cmd.Flags().IntVar(&f.iterations, "iterations", f.iterations, "maximum number of moves to try")
	cmd.Flags().Uint64Var(&f.seed, "seed", f.seed, "random seed")
	cmd.Flags().Float64Var(&f.temperature, "temperature", f.temperature, "initial search temperature (0 for pure descent)")
	registerCompletions(cmd, nil)

	return cmd
}

// apply overrides opts with the flags set on cmd.
func (f optimizeFlags) apply(cmd *cobra.Command, opts pipeline.Options) pipeline.Options {
	set := cmd.Flags().Changed
	if set("aspect-ratio") {
		opts.AspectRatio = f.aspectRatio
	}
	if set("min-edge") {
		opts.MinEdgeLength = f.minEdge
	}
	if set("grid") {
		opts.GridSize = f.gridSize
	}
	if set("iterations") {
		opts.Layout.MaxIterations = f.iterations
	}
	if set("seed") {
		opts.Layout.Seed = f.seed
	}
	if set("temperature") {
		opts.Layout.InitialTemperature = f.temperature
	}
	opts.Refresh = f.refresh
	return opts
}

// runOptimize loads the snapshot, optimizes it, and writes output.
func (c *CLI) runOptimize(ctx context.Context, cfg *config.Config, input string, opts pipeline.Options, f optimizeFlags) error {
	if err := opts.Validate(); err != nil {
		return err
	}
	data, err := readSnapshot(input)
	if err != nil {
		return err
	}

	outputPath := f.output
	if outputPath == "" {
		outputPath = defaultOutput(input, optimizedSuffix, pipeline.FormatJSON)
	}
	if err := errors.ValidatePath(outputPath); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	var result *pipeline.Result
	if f.tui {
		result, err = runOptimizeTUI(ctx, runner, data, opts)
	} else {
		result, err = c.optimizeWithSpinner(ctx, runner, data, opts)
	}
	if err != nil {
		return fmt.Errorf("optimize: %w", err)
	}

	if err := c.writeOutput(ctx, runner, result.Data, outputPath); err != nil {
		return err
	}

	ui := c.ui()
	if result.Info.Canceled {
		ui.warn("Optimization interrupted, saved best layout found so far")
	} else {
		ui.success("Layout optimized")
	}
	ui.file(outputPath)
	ui.stats(data.Graph().NumNodes(), data.Graph().NumEdges(), result.Cached)
	ui.cost(result.Info)
	if errors.FormatFromPath(outputPath) == pipeline.FormatJSON {
		ui.nextStep("Render", appName+" export "+outputPath+" -f svg")
	}

	if result.Info.Canceled {
		return ctx.Err()
	}
	return nil
}

func (c *CLI) optimizeWithSpinner(ctx context.Context, runner *pipeline.Runner, data *mindmap.Data, opts pipeline.Options) (*pipeline.Result, error) {
	message := fmt.Sprintf("Optimizing %d nodes...", data.Graph().NumNodes())
	spinner := newSpinnerWithContext(ctx, message)
	reporter := newProgressReporter(loggerFromContext(ctx), spinner, message)
	st := startStage(loggerFromContext(ctx), "optimize")

	spinner.Start()
	result, err := runner.Optimize(ctx, data, opts, reporter.Callback())
	if err != nil {
		spinner.StopWithError("Optimization failed")
		return nil, err
	}
	spinner.Stop()
	st.done(fmt.Sprintf("Optimized %d nodes", data.Graph().NumNodes()), "cached", result.Cached)
	return result, nil
}

// writeOutput writes data to path in the format its extension names.
func (c *CLI) writeOutput(ctx context.Context, runner *pipeline.Runner, data *mindmap.Data, path string) error {
	format := errors.FormatFromPath(path)
	if format == pipeline.FormatJSON {
		if err := snapshot.WriteFile(data, path); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		return nil
	}
	// Rendering is short and should finish even after an interrupt.
	out, _, err := runner.Export(context.WithoutCancel(ctx), data, pipeline.ExportOptions{Format: format})
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}

// readSnapshot reads a snapshot file, mapping failures to error codes.
func readSnapshot(path string) (*mindmap.Data, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := snapshot.ReadFile(path)
	switch {
	case err == nil:
		return data, nil
	case stderrors.Is(err, fs.ErrNotExist):
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "snapshot %s not found", path)
	default:
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "load snapshot %s", path)
	}
}

// defaultOutput derives "<base><suffix>.<format>" from input.
func defaultOutput(input, suffix, format string) string {
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + suffix + "." + format
}
