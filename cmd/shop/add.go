package main

import (
	"fmt"
	"strconv"

	"github.com/jacksmith/shop/internal/ops"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name> <price> [quantity]",
	Short: "Add an item",
	Long: `Add an item to the list. New items are pending.

The price is a unit price; a comma works as the decimal separator.
If quantity is omitted, default_quantity from .shopconfig.yaml is used (1).

Examples:
  shop add Rice 5 2
  shop add "Brown rice" 7.50
  shop add Leite 4,99 3`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runAdd,
}

func init() {
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	quantity := strconv.Itoa(ws.cfg.DefaultQuantity)
	if len(args) == 3 {
		quantity = args[2]
	}

	fields, err := ops.Validate(args[0], args[1], quantity)
	if err != nil {
		return err
	}

	store := ws.openStore(ctx)
	item, err := store.Add(ctx, fields.Name, fields.Price, fields.Quantity)
	if err != nil {
		return err
	}

	fmt.Printf("%s %s\n", item.ShortID(), item.Name)
	return nil
}
