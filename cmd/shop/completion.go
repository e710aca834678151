package main

import (
	"context"
	"os"
	"strings"

	"github.com/jacksmith/shop/internal/cli"
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for shop.

To load completions:

Bash:
  $ source <(shop completion bash)
  # To load completions for each session, execute once:
  # Linux:
  $ shop completion bash > /etc/bash_completion.d/shop
  # macOS:
  $ shop completion bash > $(brew --prefix)/etc/bash_completion.d/shop

Zsh:
  $ shop completion zsh > "${fpath[1]}/_shop"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ shop completion fish | source
  # To load completions for each session, execute once:
  $ shop completion fish > ~/.config/fish/completions/shop.fish
`,
}

var completionBashCmd = &cobra.Command{
	Use:   "bash",
	Short: "Generate bash completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenBashCompletion(os.Stdout)
	},
}

var completionZshCmd = &cobra.Command{
	Use:   "zsh",
	Short: "Generate zsh completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenZshCompletion(os.Stdout)
	},
}

var completionFishCmd = &cobra.Command{
	Use:   "fish",
	Short: "Generate fish completion script",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return rootCmd.GenFishCompletion(os.Stdout, true)
	},
}

func init() {
	completionCmd.AddCommand(completionBashCmd)
	completionCmd.AddCommand(completionZshCmd)
	completionCmd.AddCommand(completionFishCmd)
	rootCmd.AddCommand(completionCmd)
}

// completeItemIDs completes short item IDs, described by status and name.
// It reads the stored list without loading it, so nothing is moved aside.
func completeItemIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	ctx := context.Background()
	ws, err := openWorkspace(ctx)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer ws.Close()

	doc, ok, err := ws.gateway.Inspect(ctx)
	if !ok || err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var completions []string
	toCompleteLower := strings.ToLower(toComplete)
	for _, item := range doc.Items {
		if strings.HasPrefix(strings.ToLower(item.ID), toCompleteLower) {
			completions = append(completions, item.ShortID()+"\t"+string(item.Status())+": "+cli.Truncate(item.Name, 40))
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}

// completeSortKeys completes values for --sort.
func completeSortKeys(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var completions []string
	for _, k := range cli.SortKeyNames() {
		if strings.HasPrefix(k, strings.ToLower(toComplete)) {
			completions = append(completions, k)
		}
	}
	return completions, cobra.ShellCompDirectiveNoFileComp
}
