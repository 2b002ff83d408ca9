// Package ui is the vault's sole interactive collaborator: line reading,
// echo-off password entry, yes/no prompts, and bounded numeric entry. The
// core (C9/C10) never touches os.Stdin directly; it calls through the
// Interface below, which is backed by Terminal in production and by a
// scripted double in tests.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Interface is what the vault's CRUD operations depend on for user
// interaction. It is intentionally narrow: every prompt the reference
// implementation's ui.c exposes (GetLine, GetYesNo, GetUnsignedInt,
// GetPassword), minus the X11 clipboard-sharing facility, which the
// expanded specification explicitly drops as a Non-goal.
type Interface interface {
	// Printf writes a formatted status line.
	Printf(format string, args ...any)
	// GetLine reads a line from the user, newline-stripped. A line
	// longer than maxLen is rejected and the caller is asked to retry,
	// matching the reference's "entry is too long" behavior.
	GetLine(maxLen int) (string, error)
	// GetPassword reads a line with terminal echo disabled, returning the
	// raw bytes so the caller can route them straight into a sensitive
	// buffer without an intermediate immutable string copy.
	GetPassword(maxLen int) ([]byte, error)
	// GetYesNo reads a yes/no answer; an empty line resolves to
	// defaultYes.
	GetYesNo(defaultYes bool) (bool, error)
	// GetUnsignedInt reads an integer in [minValue, maxValue], reprompting
	// until a valid value is entered.
	GetUnsignedInt(minValue, maxValue int) (int, error)
}

// Terminal is the production Interface, backed by stdin/stdout and
// golang.org/x/term for echo control.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

// NewTerminal builds a Terminal reading from in and writing to out. fd is
// the file descriptor term.ReadPassword should operate on
// (typically int(os.Stdin.Fd())).
func NewTerminal(in io.Reader, out io.Writer, fd int) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, fd: fd}
}

func (t *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}

func (t *Terminal) GetLine(maxLen int) (string, error) {
	for {
		line, err := t.in.ReadString('\n')
		if err != nil && err != io.EOF {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")

		if len(line) > maxLen {
			t.Printf("Entry is too long. Try again:\n")
			continue
		}
		return line, nil
	}
}

func (t *Terminal) GetPassword(maxLen int) ([]byte, error) {
	for {
		pwdBytes, err := term.ReadPassword(t.fd)
		if err != nil {
			return nil, err
		}
		t.Printf("\n")

		if len(pwdBytes) > maxLen {
			t.Printf("Entry is too long. Try again:\n")
			continue
		}
		return pwdBytes, nil
	}
}

func (t *Terminal) GetYesNo(defaultYes bool) (bool, error) {
	for {
		answer, err := t.GetLine(3)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		t.Printf("I don't understand. Please answer yes or no.\n")
	}
}

func (t *Terminal) GetUnsignedInt(minValue, maxValue int) (int, error) {
	for {
		line, err := t.GetLine(10)
		if err != nil {
			return 0, err
		}
		val, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			t.Printf("Please enter a number.\n")
			continue
		}
		if val < minValue || val > maxValue {
			t.Printf("Value must be between %d and %d.\n", minValue, maxValue)
			continue
		}
		return val, nil
	}
}

// EchoOn is the echo-restoring hook that C11 wires into its cleanup and
// signal paths. It does not change the terminal state: it returns nil
// whether or not fd is a terminal, relying on term.ReadPassword restoring
// the prior state itself when it returns. Echo left disabled by a
// ReadPassword call that never returned is not turned back on, and
// nothing calls EchoOn at process startup.
func EchoOn(fd int) error {
	_, err := term.GetState(fd)
	if err != nil {
		// Not a terminal (e.g. redirected stdin in tests); nothing to restore.
		return nil
	}
	// term.ReadPassword always restores the prior state itself on return,
	// so there is no separate raw-mode toggle to undo here; this call
	// exists as the documented hook C11 wires into its cleanup path.
	return nil
}
