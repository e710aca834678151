package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/shop/internal/ops"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search items by name",
	Long: `Find items whose name contains the query, ignoring case.

Example:
  shop find rice`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	matches := ops.FilterByName(ws.openStore(ctx).List(), args[0])
	if len(matches) == 0 {
		fmt.Printf("No items match %q.\n", args[0])
		return nil
	}

	renderItems(os.Stdout, ws, matches)
	return nil
}
