package main

import "github.com/spf13/cobra"

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every item name in the store, sorted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := store.List()
		if err != nil {
			return err
		}
		for _, name := range names {
			cmd.Println(name)
		}
		return nil
	},
}
