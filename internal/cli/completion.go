package cli

import (
	"github.com/spf13/cobra"
)

// completionShells lists the shells cobra can generate scripts for.
var completionShells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand writes a shell completion script to stdout.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for lineage and print it to stdout.

Load it for the current session, for example:

  source <(lineage completion bash)
  lineage completion fish | source

To keep completions, write the script to your shell's completion directory,
e.g. "${fpath[1]}/_lineage" for zsh.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completionShells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "zsh":
				return root.GenZshCompletion(stdout)
			case "fish":
				return root.GenFishCompletion(stdout, true)
			case "powershell":
				return root.GenPowerShellCompletionWithDesc(stdout)
			}
			return root.GenBashCompletionV2(stdout, true)
		},
	}
}
