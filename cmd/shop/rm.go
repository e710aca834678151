package main

import (
	"fmt"

	"github.com/jacksmith/shop/internal/cli"
	"github.com/jacksmith/shop/internal/ops"
	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:     "rm <id>",
	Aliases: []string{"delete"},
	Short:   "Delete an item",
	Long: `Delete an item from the list.

Asks for confirmation unless --yes is given or confirm is false in
.shopconfig.yaml.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runRm,
	ValidArgsFunction: completeItemIDs,
}

var rmYes bool

func init() {
	rmCmd.Flags().BoolVarP(&rmYes, "yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
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

	if ws.cfg.Confirm && !rmYes {
		ok, err := cli.ConfirmTTY(fmt.Sprintf("Delete %q?", item.Name))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	removed, err := store.Delete(ctx, item.ID)
	if err != nil {
		return err
	}
	if !removed {
		return &ops.NotFoundError{ID: item.ID}
	}

	fmt.Printf("Deleted %s\n", item.Name)
	return nil
}
