package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jacksmith/shop/internal/model"
	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Export the list",
	Long: `Print the whole list in its stored YAML form.

With --json, print a plain JSON array of items instead, the same layout
older versions of the app stored; it can be read back by any version.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

var dumpJSON bool

func init() {
	dumpCmd.Flags().BoolVar(&dumpJSON, "json", false, "print a JSON array")
	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)

	ws, err := openWorkspace(ctx)
	if err != nil {
		return err
	}
	defer ws.Close()

	items := ws.openStore(ctx).List()

	var out []byte
	if dumpJSON {
		out, err = json.MarshalIndent(items, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	} else {
		out, err = model.Encode(items)
	}
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}

	_, err = os.Stdout.Write(out)
	return err
}
