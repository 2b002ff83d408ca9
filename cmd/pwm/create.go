package main

import "github.com/spf13/cobra"

var createCmd = &cobra.Command{
	Use:   "create <itemName>",
	Short: "Create a new item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return store.Create(args[0])
	},
}
