package main

import "github.com/spf13/cobra"

var getCmd = &cobra.Command{
	Use:   "get <itemName>",
	Short: "Show an item's username, other info, and optionally its password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := store.Get(args[0])
		return err
	},
}
