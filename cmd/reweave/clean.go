package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reweave/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the persistent verdict cache",
	Long:  "Remove every cached round-trip verdict so the next check re-verifies all files from scratch.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	cache, err := driver.OpenCheckCache("reweave")
	if err != nil {
		return fmt.Errorf("failed to open verdict cache: %w", err)
	}
	if err := cache.DropAll(); err != nil {
		return fmt.Errorf("failed to drop verdict cache: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "verdict cache cleared")
	return nil
}
