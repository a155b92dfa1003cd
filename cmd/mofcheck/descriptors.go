package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/mofcheck/checker"
)

var descriptorsCmd = &cobra.Command{
	Use:   "descriptors",
	Short: "List the descriptor catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, n := range checker.Catalog() {
			fmt.Fprintln(cmd.OutOrStdout(), n)
		}
		return nil
	},
}
