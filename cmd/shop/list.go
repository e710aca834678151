package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jacksmith/shop/internal/cli"
	"github.com/jacksmith/shop/internal/model"
	"github.com/jacksmith/shop/internal/ops"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List items with totals",
	Long: `List items in the order they were added, followed by totals.

Flags:
  -s, --search   Show only items whose name contains the text (any case)
  --sort         name, price (line total, highest first) or status
                 (pending first); may be abbreviated
  --pending      Show only pending items
  --purchased    Show only purchased items

Without --sort, default_sort from .shopconfig.yaml is used.
Totals always cover the whole list.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var (
	listSearch    string
	listSort      string
	listPending   bool
	listPurchased bool
)

func init() {
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "filter by name")
	listCmd.Flags().StringVar(&listSort, "sort", "", "sort by name, price or status")
	listCmd.Flags().BoolVar(&listPending, "pending", false, "show only pending items")
	listCmd.Flags().BoolVar(&listPurchased, "purchased", false, "show only purchased items")
	listCmd.MarkFlagsMutuallyExclusive("pending", "purchased")

	listCmd.RegisterFlagCompletionFunc("sort", completeSortKeys)

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	if listPending && listPurchased {
		return fmt.Errorf("--pending and --purchased cannot be used together")
	}

	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	sortInput := listSort
	if sortInput == "" {
		sortInput = ws.cfg.DefaultSort
	}
	key, err := resolveSortKey(sortInput)
	if err != nil {
		return err
	}

	all := ws.openStore(ctx).List()
	if len(all) == 0 {
		fmt.Println("No items. Add one with 'shop add <name> <price> [quantity]'.")
		return nil
	}

	view, err := ws.sorter.View(all, ops.Query{Search: listSearch, Sort: key})
	if err != nil {
		return err
	}
	view = filterByStatus(view)

	if len(view) == 0 {
		fmt.Println("No matching items.")
	} else {
		renderItems(os.Stdout, ws, view)
	}

	fmt.Println()
	renderTotals(os.Stdout, ws, ops.Summarize(all))
	return nil
}

// resolveSortKey accepts a full or abbreviated sort key. Empty means none.
func resolveSortKey(input string) (ops.SortKey, error) {
	if input == "" {
		return ops.SortNone, nil
	}
	name, err := cli.MatchChoice(input, cli.SortKeyNames(), "sort key")
	var ce *cli.ChoiceError
	if errors.As(err, &ce) && len(ce.Matches) == 0 {
		return ops.ParseSortKey(input)
	}
	if err != nil {
		return ops.SortNone, err
	}
	return ops.ParseSortKey(name)
}

func filterByStatus(items []model.Item) []model.Item {
	if !listPending && !listPurchased {
		return items
	}
	var result []model.Item
	for _, item := range items {
		if item.Purchased == listPurchased {
			result = append(result, item)
		}
	}
	return result
}

// renderItems writes one row per item: id, checkbox, name, quantity x price, line total.
func renderItems(w io.Writer, ws *workspace, items []model.Item) {
	table := cli.NewTable()
	table.SetMaxWidth(2, cli.DefaultMaxNameWidth)
	table.AlignRight(3)
	table.AlignRight(4)
	for _, item := range items {
		name := item.Name
		if item.Purchased {
			name = cli.Gray(name)
		}
		table.AddRow(
			item.ShortID(),
			checkbox(item),
			name,
			fmt.Sprintf("%d x %s", item.Quantity, ws.money(item.Price)),
			ws.money(item.LineTotal()),
		)
	}
	table.Render(w)
}

// renderTotals writes the pending, purchased and overall totals.
func renderTotals(w io.Writer, ws *workspace, s ops.Summary) {
	table := cli.NewTable()
	table.AlignRight(1)
	table.AddRow(fmt.Sprintf("To buy (%d):", s.Pending), ws.money(s.TotalPending))
	table.AddRow(fmt.Sprintf("Purchased (%d):", s.Purchased), ws.money(s.TotalPurchased))
	table.AddRow("Total:", ws.money(s.Total))
	table.Render(w)
}
