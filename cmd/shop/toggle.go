package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var toggleCmd = &cobra.Command{
	Use:   "toggle <id>...",
	Short: "Mark items purchased, or pending again",
	Long: `Flip the purchased flag of one or more items.

IDs may be abbreviated to any unique prefix.

Examples:
  shop toggle 6f1c
  shop toggle 6f1c 0b8d`,
	Args:              cobra.MinimumNArgs(1),
	RunE:              runToggle,
	ValidArgsFunction: completeItemIDs,
}

func init() {
	rootCmd.AddCommand(toggleCmd)
}

func runToggle(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	store := ws.openStore(ctx)
	for _, ref := range args {
		item, err := resolveItem(store, ref)
		if err != nil {
			return err
		}

		toggled, err := store.TogglePurchased(ctx, item.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", checkbox(toggled), toggled.Name)
	}
	return nil
}
