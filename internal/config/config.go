// Package config resolves the vault's non-secret runtime knobs: where the
// store lives on disk and how the process logs. This is deliberately
// separate from the encrypted on-disk Config record (owned by the vault
// package) -- Runtime never affects the cryptographic scheme, only where
// bytes land and how verbosely the process narrates itself.
package config

import (
	"os"
	"path/filepath"
)

// LogFormat selects the slog handler used for process output.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Runtime is the resolved set of runtime knobs, in priority order: CLI
// flags override environment variables, which override defaults.
type Runtime struct {
	StoreRoot string
	Verbose   bool
	LogFormat LogFormat
}

// Resolve builds a Runtime from explicit flag values (storeFlag/verboseFlag/
// formatFlag, any of which may be the zero value meaning "not set on the
// command line") layered over the PWM_STORE/PWM_LOG_LEVEL/PWM_LOG_FORMAT
// environment variables and finally the built-in defaults
// ($HOME/PwmStore, info level, text format).
func Resolve(storeFlag string, verboseFlag bool, formatFlag string) (Runtime, error) {
	rt := Runtime{LogFormat: LogFormatText}

	switch {
	case storeFlag != "":
		rt.StoreRoot = storeFlag
	case os.Getenv("PWM_STORE") != "":
		rt.StoreRoot = os.Getenv("PWM_STORE")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return Runtime{}, err
		}
		rt.StoreRoot = filepath.Join(home, "PwmStore")
	}

	rt.Verbose = verboseFlag || os.Getenv("PWM_LOG_LEVEL") == "debug"

	switch {
	case formatFlag != "":
		rt.LogFormat = LogFormat(formatFlag)
	case os.Getenv("PWM_LOG_FORMAT") != "":
		rt.LogFormat = LogFormat(os.Getenv("PWM_LOG_FORMAT"))
	}

	return rt, nil
}
