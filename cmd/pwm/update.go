package main

import "github.com/spf13/cobra"

var updateCmd = &cobra.Command{
	Use:   "update <itemName>",
	Short: "Interactively replace one or more fields of an existing item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return store.Update(args[0])
	},
}
