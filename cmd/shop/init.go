package main

import (
	"fmt"

	"github.com/jacksmith/shop/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new shopping list",
	Long: `Create a .shop/ directory holding an empty shopping list.

Settings such as the storage backend, locale and default sort go in an
optional .shopconfig.yaml next to .shop/.

Fails if .shop/ already exists.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	s, err := storage.Init(workDir)
	if err != nil {
		return err
	}

	fmt.Printf("Initialized shop in %s\n", s.ShopPath())
	return nil
}
