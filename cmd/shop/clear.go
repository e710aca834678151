package main

import (
	"fmt"

	"github.com/jacksmith/shop/internal/cli"
	"github.com/jacksmith/shop/internal/ops"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all purchased items",
	Long: `Remove every purchased item in one step. Pending items are kept in order.

Asks for confirmation unless --yes is given or confirm is false in
.shopconfig.yaml.`,
	Args: cobra.NoArgs,
	RunE: runClear,
}

var clearYes bool

func init() {
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	store := ws.openStore(ctx)
	summary := ops.Summarize(store.List())
	if summary.Purchased == 0 {
		fmt.Println("No purchased items.")
		return nil
	}

	if ws.cfg.Confirm && !clearYes {
		prompt := fmt.Sprintf("Remove %d purchased item(s) (%s)?", summary.Purchased, ws.money(summary.TotalPurchased))
		ok, err := cli.ConfirmTTY(prompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	n, err := store.ClearPurchased(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Removed %d purchased item(s)\n", n)
	return nil
}
