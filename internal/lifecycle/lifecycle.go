// Package lifecycle wires the vault's process-wide startup and shutdown
// discipline: locking memory against swap, installing a signal handler
// that wipes every live secret before the process dies, and registering
// the equivalent of an at-exit cleanup for the normal-exit path. Go has
// no direct analogue of atexit(3); main calls Cleanup explicitly on every
// exit path and also defers it, matching the belt-and-suspenders posture
// of the reference implementation's sigaction+atexit combination.
package lifecycle

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/narwhaltorpedo/pwm/internal/sensitive"
	"github.com/narwhaltorpedo/pwm/internal/ui"
)

// terminationSignals is the set of catchable signals the reference
// implementation wires its CleanupSignalHandler to. SIGKILL and SIGSTOP
// are omitted because no process can intercept them; Go's runtime also
// reserves a few signals (e.g. SIGSEGV raised by the runtime itself) for
// its own fatal-error path, but everything in this list is deliverable to
// an os/signal.Notify channel.
var terminationSignals = []os.Signal{
	syscall.SIGABRT,
	syscall.SIGALRM,
	syscall.SIGBUS,
	syscall.SIGFPE,
	syscall.SIGHUP,
	syscall.SIGILL,
	syscall.SIGINT,
	syscall.SIGPIPE,
	syscall.SIGQUIT,
	syscall.SIGSEGV,
	syscall.SIGTERM,
	syscall.SIGTRAP,
	syscall.SIGUSR1,
	syscall.SIGUSR2,
	syscall.SIGXCPU,
	syscall.SIGXFSZ,
}

// LockMemory locks all of the process's current and future pages against
// swap. Failure is fatal: the threat model requires that secrets never
// reach swap. Callers should log the specific errno (commonly EPERM,
// meaning RLIMIT_MEMLOCK needs raising) before treating this as fatal.
func LockMemory() error {
	return unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE)
}

// Cleanup zeroizes every live sensitive buffer and calls ui.EchoOn, which
// leaves the terminal state unchanged. It is safe to call more than once
// and is wired into both the signal handler and the normal-exit path.
func Cleanup(stdinFd int) {
	sensitive.Global().WipeAll()
	_ = ui.EchoOn(stdinFd)
}

// InstallSignalHandler starts a goroutine that waits for any of
// terminationSignals, runs Cleanup, and exits the process with a non-zero
// status. It returns a stop function the caller should defer to release
// the underlying signal channel on graceful shutdown.
func InstallSignalHandler(stdinFd int) (stop func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, terminationSignals...)

	done := make(chan struct{})
	go func() {
		select {
		case <-ch:
			Cleanup(stdinFd)
			os.Exit(1)
		case <-done:
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
