// Package main is the pwm command-line entry point: a thin cobra command
// tree that resolves runtime configuration, wires up structured logging
// and process-lifecycle guarantees, and dispatches each verb straight
// into the vault package. No cryptographic or storage logic lives here.
package main

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"hermannm.dev/devlog"

	"github.com/narwhaltorpedo/pwm/internal/config"
	"github.com/narwhaltorpedo/pwm/internal/lifecycle"
	"github.com/narwhaltorpedo/pwm/internal/storage"
	"github.com/narwhaltorpedo/pwm/internal/ui"
	"github.com/narwhaltorpedo/pwm/internal/vault"
)

// errHelpRequested is returned by every path that prints help text. It
// carries no message of its own -- Execute has already shown the user
// what they need -- but its non-nil-ness is what makes `pwm help` and a
// bare `pwm` invocation exit non-zero, matching the reference's own
// convention that help is not a "successful" outcome.
var errHelpRequested = errors.New("")

var (
	storeFlag   string
	verboseFlag bool
	formatFlag  string

	logLevel   slog.LevelVar
	runtimeCfg config.Runtime
	store      *vault.Store
)

var rootCmd = &cobra.Command{
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	Use:           "pwm",
	Short:         "A single-user, command-line password vault",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Help() //nolint:errcheck
		return errHelpRequested
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		rt, err := config.Resolve(storeFlag, verboseFlag, formatFlag)
		if err != nil {
			return err
		}
		runtimeCfg = rt
		if runtimeCfg.Verbose {
			logLevel.Set(slog.LevelDebug)
		}
		if runtimeCfg.LogFormat == config.LogFormatJSON {
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel})))
		}

		fsys := storage.New(runtimeCfg.StoreRoot)
		if err := fsys.EnsureRoot(0700); err != nil {
			return err
		}
		term := ui.NewTerminal(os.Stdin, os.Stdout, int(os.Stdin.Fd()))
		store = vault.New(fsys, term)

		return store.CleanupStaleTemp()
	},
}

// Execute runs the command tree. Every non-nil error -- including
// "help requested", matching the reference's own convention -- leaves the
// process exiting non-zero.
//
// cobra resolves an unrecognized verb inside Find, before any RunE runs,
// and (with SilenceUsage/SilenceErrors set) hands back a bare
// "unknown command" error with nothing printed at all. The reference
// prints its usage for any unrecognized verb, so that error is caught
// here and turned into the same help text every other help path shows.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return 0
	}
	if errors.Is(err, errHelpRequested) {
		return 1
	}
	if isUnknownCommandErr(err) {
		rootCmd.Help() //nolint:errcheck
		return 1
	}
	slog.Error(err.Error())
	return 1
}

// isUnknownCommandErr reports whether err is cobra's own Find failure for
// an unrecognized verb ("unknown command %q for %q...").
func isUnknownCommandErr(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command ")
}

func init() {
	slog.SetDefault(slog.New(devlog.NewHandler(os.Stderr, &devlog.Options{
		Level: &logLevel,
	})))

	rootCmd.PersistentFlags().StringVar(&storeFlag, "store", "", "override the store directory (default $HOME/PwmStore)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug-level logging")
	rootCmd.PersistentFlags().StringVar(&formatFlag, "log-format", "", "log output format: text or json")

	rootCmd.AddCommand(
		helpCmd,
		initCmd,
		destroyCmd,
		listCmd,
		configCmd,
		createCmd,
		getCmd,
		updateCmd,
		deleteCmd,
	)
}

func main() {
	stdinFd := int(os.Stdin.Fd())
	if err := lifecycle.LockMemory(); err != nil {
		slog.Error("could not lock process memory against swap", "error", err)
		lifecycle.Cleanup(stdinFd)
		os.Exit(1)
	}
	stop := lifecycle.InstallSignalHandler(stdinFd)
	defer stop()
	defer lifecycle.Cleanup(stdinFd)

	// os.Exit skips deferred calls, so the normal-exit path runs them
	// explicitly; the defers above still cover a panic in Execute.
	code := Execute()
	stop()
	lifecycle.Cleanup(stdinFd)
	os.Exit(code)
}
