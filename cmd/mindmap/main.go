package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/internal/cli"
	mmerrors "github.com/matzehuels/mindmap/pkg/errors"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func run(ctx context.Context) error {
	var verbose bool

	c := cli.New(os.Stderr, cli.LogInfo)
	root := c.RootCommand()
	root.SilenceErrors = true
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	originalPreRun := root.PersistentPreRun
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose {
			c.SetLogLevel(cli.LogDebug)
		}
		if originalPreRun != nil {
			originalPreRun(cmd, args)
		}
	}

	return root.ExecuteContext(ctx)
}

// exitCode maps input errors to 2 and everything else to 1.
func exitCode(err error) int {
	switch mmerrors.GetCode(err) {
	case mmerrors.ErrCodeInvalidInput, mmerrors.ErrCodeInvalidGraph, mmerrors.ErrCodeInvalidOptions,
		mmerrors.ErrCodeInvalidConfig, mmerrors.ErrCodeInvalidFormat, mmerrors.ErrCodeInvalidPath,
		mmerrors.ErrCodeFileNotFound:
		return 2
	default:
		return 1
	}
}
