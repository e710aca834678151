package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var qtyCmd = &cobra.Command{
	Use:   "qty <id> <delta>",
	Short: "Increase or decrease an item's quantity",
	Long: `Add delta to an item's quantity. The quantity never drops below 1.

Examples:
  shop qty 6f1c +1
  shop qty 6f1c -2`,
	Args:              cobra.ExactArgs(2),
	RunE:              runQty,
	ValidArgsFunction: completeItemIDs,
}

func init() {
	// Keep "-2" from being read as a flag.
	qtyCmd.Flags().SetInterspersed(false)
	rootCmd.AddCommand(qtyCmd)
}

func runQty(cmd *cobra.Command, args []string) error {
	delta, err := strconv.Atoi(strings.TrimSpace(args[1]))
	if err != nil {
		return fmt.Errorf("invalid delta %q: use a whole number such as +1 or -2", args[1])
	}

	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	store := ws.openStore(ctx)
	item, err := resolveItem(store, args[0])
	if err != nil {
		return err
	}

	updated, err := store.AdjustQuantity(ctx, item.ID, delta)
	if err != nil {
		return err
	}

	fmt.Printf("%s x%d\n", updated.Name, updated.Quantity)
	return nil
}
