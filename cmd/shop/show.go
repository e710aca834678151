package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show item details",
	Long: `Show all fields of an item.

The ID may be abbreviated to any unique prefix and is case-insensitive.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runShow,
	ValidArgsFunction: completeItemIDs,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	item, err := resolveItem(ws.openStore(ctx), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("ID:        %s\n", item.ID)
	fmt.Printf("Name:      %s\n", item.Name)
	fmt.Printf("Price:     %s\n", ws.money(item.Price))
	fmt.Printf("Quantity:  %d\n", item.Quantity)
	fmt.Printf("Status:    %s\n", item.Status())
	fmt.Printf("Total:     %s\n", ws.money(item.LineTotal()))
	return nil
}
