package main

import "github.com/spf13/cobra"

var deleteCmd = &cobra.Command{
	Use:   "delete <itemName>",
	Short: "Delete an item, after confirmation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return store.Delete(args[0])
	},
}
