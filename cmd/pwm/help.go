package main

import "github.com/spf13/cobra"

// helpCmd replaces cobra's default help command so that `pwm help` can
// carry the reference implementation's convention that help is never a
// successful exit. It also skips the parent's PersistentPreRunE, since
// printing help should never require an initialized store.
var helpCmd = &cobra.Command{
	Use:                "help",
	Short:              "Show usage and exit non-zero",
	PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return nil },
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootCmd.Help() //nolint:errcheck
		return errHelpRequested
	},
}
