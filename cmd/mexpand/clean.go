package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mexpand/internal/driver"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove the expansion cache",
	Long:  "Remove every cached expansion under $XDG_CACHE_HOME/mexpand.",
	Args:  cobra.NoArgs,
	RunE:  runClean,
}

func runClean(cmd *cobra.Command, _ []string) error {
	dir, err := driver.ClearCache(cacheApp)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	if !quiet(cmd) {
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", dir)
	}
	return nil
}
