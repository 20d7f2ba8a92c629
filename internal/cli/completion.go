package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/mindmap/pkg/pipeline"
)

var (
	exportFormats = []string{pipeline.FormatSVG, pipeline.FormatDOT, pipeline.FormatJSON}
	engines       = []string{"neato", "dot"}
)

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for the given shell and print it to stdout.

  $ source <(mindmap completion bash)
  $ mindmap completion zsh > "${fpath[1]}/_mindmap"
  $ mindmap completion fish > ~/.config/fish/completions/mindmap.fish
  PS> mindmap completion powershell | Out-String | Invoke-Expression

Snapshot arguments complete to .json files, --format and --engine to the
values the command accepts.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// completeSnapshot completes the single snapshot argument to JSON files.
func completeSnapshot(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
}

func fixedValues(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerCompletions wires value completion for the flags cmd defines.
// Flags it does not have are skipped.
func registerCompletions(cmd *cobra.Command, formats []string) {
	cmd.ValidArgsFunction = completeSnapshot
	if cmd.Flags().Lookup("format") != nil {
		_ = cmd.RegisterFlagCompletionFunc("format", fixedValues(formats...))
	}
	if cmd.Flags().Lookup("engine") != nil {
		_ = cmd.RegisterFlagCompletionFunc("engine", fixedValues(engines...))
	}
}
