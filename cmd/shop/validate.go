package main

import (
	"context"
	"fmt"

	"github.com/jacksmith/shop/internal/cli"
	"github.com/jacksmith/shop/internal/model"
	"github.com/jacksmith/shop/internal/ops"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check stored data integrity",
	Long: `Check the stored list for records that break the item rules.

Checks for:
- Missing or duplicate IDs
- Empty names
- Prices that are not positive numbers
- Quantities below 1
- Data that cannot be decoded at all

Normal commands treat a list with any such problem as unreadable and start
empty. Use --fix to repair it instead: records without a usable name or
price are dropped, quantities are raised to 1 and IDs are reassigned.
Undecodable data is moved aside and the list is reset.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

var validateFix bool

func init() {
	validateCmd.Flags().BoolVar(&validateFix, "fix", false, "repair the stored list")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	doc, ok, err := ws.gateway.Inspect(ctx)
	if err != nil && !ok {
		return fmt.Errorf("failed to read stored list: %w", err)
	}
	if !ok {
		fmt.Println(cli.Green("Nothing stored yet."))
		return nil
	}
	if err != nil {
		fmt.Printf("%s stored data cannot be decoded: %v\n", cli.Red("[corrupt]"), err)
		if !validateFix {
			return fmt.Errorf("stored list is unreadable (use --fix to reset it)")
		}
		return resetCorrupt(ctx, ws)
	}

	issues := ops.Check(doc.Items)
	legacy := doc.Version < model.CurrentVersion

	if len(issues) == 0 && !legacy {
		fmt.Println(cli.Green("No issues found."))
		return nil
	}

	if legacy {
		fmt.Printf("%s stored in the old unversioned format\n", cli.Yellow("[legacy]"))
	}
	if len(issues) > 0 {
		fmt.Printf("Found %d issue(s):\n\n", len(issues))
		for _, is := range issues {
			fmt.Printf("%s %s\n", formatIssueType(is.Type), is)
		}
	}

	if !validateFix {
		if len(issues) > 0 {
			return fmt.Errorf("found %d issue(s) (use --fix to repair)", len(issues))
		}
		return nil
	}

	repaired, fixes := ops.Repair(doc.Items)
	if err := ws.gateway.Save(ctx, repaired); err != nil {
		return err
	}

	if len(fixes) > 0 {
		fmt.Println()
		fmt.Println("Fixes applied:")
		for _, f := range fixes {
			fmt.Printf("  record %d: %s\n", f.Position, f.Description)
		}
	}
	fmt.Println()
	fmt.Println(cli.Green(fmt.Sprintf("Saved %d item(s) in the current format.", len(repaired))))
	return nil
}

// resetCorrupt moves undecodable data aside and saves an empty list.
func resetCorrupt(ctx context.Context, ws *workspace) error {
	items, _ := ws.gateway.Load(ctx)
	if err := ws.gateway.Save(ctx, items); err != nil {
		return err
	}
	fmt.Printf("Old data kept under %q. The list is now empty.\n", ws.gateway.CorruptKey())
	return nil
}

func formatIssueType(t ops.IssueType) string {
	switch t {
	case ops.IssueMissingID, ops.IssueDuplicateID:
		return cli.Yellow("[id]")
	case ops.IssueEmptyName:
		return cli.Red("[name]")
	case ops.IssueInvalidPrice:
		return cli.Red("[price]")
	case ops.IssueInvalidQuantity:
		return cli.Yellow("[quantity]")
	default:
		return fmt.Sprintf("[%s]", t)
	}
}
