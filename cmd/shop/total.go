package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/shop/internal/ops"
	"github.com/spf13/cobra"
)

var totalCmd = &cobra.Command{
	Use:   "total",
	Short: "Show what is left to buy and what was spent",
	Long: `Show totals (price x quantity) for pending items, purchased items and
the whole list.

With --pending, print only the amount left to buy, for use in scripts.`,
	Args: cobra.NoArgs,
	RunE: runTotal,
}

var totalPendingOnly bool

func init() {
	totalCmd.Flags().BoolVar(&totalPendingOnly, "pending", false, "print only the pending total")
	rootCmd.AddCommand(totalCmd)
}

func runTotal(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	items := ws.openStore(ctx).List()
	if totalPendingOnly {
		fmt.Println(ws.money(ops.TotalPending(items)))
		return nil
	}

	renderTotals(os.Stdout, ws, ops.Summarize(items))
	return nil
}
