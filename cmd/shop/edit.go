package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jacksmith/shop/internal/cli"
	"github.com/jacksmith/shop/internal/model"
	"github.com/jacksmith/shop/internal/ops"
	"github.com/spf13/cobra"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an item",
	Long: `Edit an item's name, price or quantity.

Use flags to change specific fields, or -i to edit in $EDITOR.
The purchased flag and the item's position are never changed.

Examples:
  shop edit 6f1c --name="Brown rice"
  shop edit 6f1c --price=7,50 --quantity=3
  shop edit 6f1c -i`,
	Args:              cobra.ExactArgs(1),
	RunE:              runEdit,
	ValidArgsFunction: completeItemIDs,
}

var (
	editName        string
	editPrice       string
	editQuantity    string
	editInteractive bool
)

func init() {
	editCmd.Flags().StringVar(&editName, "name", "", "set item name")
	editCmd.Flags().StringVar(&editPrice, "price", "", "set unit price")
	editCmd.Flags().StringVar(&editQuantity, "quantity", "", "set quantity")
	editCmd.Flags().BoolVarP(&editInteractive, "interactive", "i", false, "edit in $EDITOR")
	rootCmd.AddCommand(editCmd)
}

// editableItem is the YAML shown in the editor for edit -i.
type editableItem struct {
	Name     string  `yaml:"name"`
	Price    float64 `yaml:"price"`
	Quantity int     `yaml:"quantity"`
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	var fields ops.Fields
	if editInteractive {
		fields, err = editItemInteractive(item)
		if errors.Is(err, cli.ErrNoChanges) {
			fmt.Println("No changes made.")
			return nil
		}
	} else {
		fields, err = editItemFromFlags(cmd, item)
	}
	if err != nil {
		return err
	}

	updated, err := store.Edit(ctx, item.ID, fields.Name, fields.Price, fields.Quantity)
	if err != nil {
		return err
	}

	fmt.Printf("Updated %s %s\n", updated.ShortID(), updated.Name)
	return nil
}

// editItemFromFlags applies the changed flags over the item's current values.
func editItemFromFlags(cmd *cobra.Command, item model.Item) (ops.Fields, error) {
	name := item.Name
	price := strconv.FormatFloat(item.Price, 'f', -1, 64)
	quantity := strconv.Itoa(item.Quantity)
	changed := false

	if flagChanged(cmd, "name", editName) {
		name = editName
		changed = true
	}
	if flagChanged(cmd, "price", editPrice) {
		price = editPrice
		changed = true
	}
	if flagChanged(cmd, "quantity", editQuantity) {
		quantity = editQuantity
		changed = true
	}

	if !changed {
		return ops.Fields{}, fmt.Errorf("no changes specified (use --name, --price, --quantity or -i)")
	}
	return ops.Validate(name, price, quantity)
}

// flagChanged reports whether a flag was set. Without a command (direct
// calls in tests) a non-empty value counts as set.
func flagChanged(cmd *cobra.Command, name, value string) bool {
	if cmd == nil {
		return value != ""
	}
	return cmd.Flags().Changed(name)
}

func editItemInteractive(item model.Item) (ops.Fields, error) {
	in := editableItem{Name: item.Name, Price: item.Price, Quantity: item.Quantity}
	var out editableItem

	header := fmt.Sprintf("Editing %s (%s)\n\nSave and close to apply. Leave unchanged to cancel.", item.ID, item.Status())
	if err := cli.EditYAML(in, &out, header); err != nil {
		return ops.Fields{}, err
	}

	if err := ops.CheckFields(out.Name, out.Price, out.Quantity); err != nil {
		return ops.Fields{}, err
	}
	return ops.Fields{Name: out.Name, Price: out.Price, Quantity: out.Quantity}, nil
}
