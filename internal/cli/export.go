package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/pipeline"
)

// exportCommand creates the export command for rendering snapshots.
func (c *CLI) exportCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.ExportOptions{}

	cmd := &cobra.Command{
		Use:   "export [snapshot.json]",
		Short: "Render a mind map as json, dot or svg",
		Long: `Render a mind map snapshot.

The format is taken from --format, else from the extension of --output, and
defaults to svg. Node positions are kept as they are in the snapshot; run
'optimize' first to tidy them up.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format == "" {
				opts.Format = pipeline.FormatSVG
				if output != "" {
					opts.Format = errors.FormatFromPath(output)
				}
			}
			if err := opts.Validate(); err != nil {
				return err
			}
			return c.runExport(cmd.Context(), args[0], output, noCache, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "output format: svg (default), dot, json")
	cmd.Flags().StringVar(&opts.Engine, "engine", "", "graphviz engine for svg: neato (default, keeps positions), dot")
	cmd.Flags().BoolVar(&opts.Transparent, "transparent", false, "omit the background color")
	cmd.Flags().BoolVar(&opts.ShowIndex, "show-index", false, "prefix node labels with their index")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	registerCompletions(cmd, exportFormats)

	return cmd
}

func (c *CLI) runExport(ctx context.Context, input, output string, noCache bool, opts pipeline.ExportOptions) error {
	data, err := readSnapshot(input)
	if err != nil {
		return err
	}
	if output == "" {
		output = defaultOutput(input, "", opts.Format)
		if output == input {
			output = defaultOutput(input, ".export", opts.Format)
		}
	}
	if err := errors.ValidatePath(output); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.Format))
	spinner.Start()
	out, cached, err := runner.Export(ctx, data, opts)
	if err != nil {
		spinner.StopWithError("Export failed")
		return err
	}
	spinner.Stop()

	if err := os.WriteFile(output, out, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	ui := c.ui()
	ui.success("Exported %s", opts.Format)
	ui.file(output)
	ui.stats(data.Graph().NumNodes(), data.Graph().NumEdges(), cached)
	return nil
}
