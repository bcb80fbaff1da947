package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for amdtrace.

To load completions:

Bash:
  $ source <(amdtrace completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ amdtrace completion bash > /etc/bash_completion.d/amdtrace
  # macOS:
  $ amdtrace completion bash > $(brew --prefix)/etc/bash_completion.d/amdtrace

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ amdtrace completion zsh > "${fpath[1]}/_amdtrace"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ amdtrace completion fish | source

  # To load completions for each session, execute once:
  $ amdtrace completion fish > ~/.config/fish/completions/amdtrace.fish

PowerShell:
  PS> amdtrace completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> amdtrace completion powershell > amdtrace.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
