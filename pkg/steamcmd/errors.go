package steamcmd

import (
	"errors"
	"fmt"
)

var (
	// ErrSteamCmd is the root of every error returned by this package
	ErrSteamCmd = errors.New("steamcmd")
	// ErrInstall is returned for configuration and installation failures
	ErrInstall = fmt.Errorf("%w: install failed", ErrSteamCmd)
	// ErrAlreadyInstalled is returned by [Session.Install] when steamcmd is present and a reinstall was not forced.
	// Callers can usually treat it as success.
	ErrAlreadyInstalled = fmt.Errorf("%w: steamcmd already installed (use force to reinstall)", ErrInstall)
	// ErrDownload is returned when the retry budget of [Session.Execute] is exhausted
	ErrDownload = fmt.Errorf("%w: max number of tries exceeded", ErrSteamCmd)
)

// ExitError is returned when steamcmd exits with a non-zero exit code that is not handled otherwise
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("steamcmd was unable to run: exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return ErrSteamCmd
}

// exitCoder is implemented by [exec.ExitError] and by runners that report exit codes directly
type exitCoder interface {
	ExitCode() int
}

// Extracts a process exit code from an error returned by a [Runner].
// Returns false if the error does not carry an exit code (e.g. the process could not be started).
func exitCode(err error) (int, bool) {
	var coder exitCoder
	if !errors.As(err, &coder) {
		return 0, false
	}
	code := coder.ExitCode()
	if code < 0 {
		return 0, false
	}
	return code, true
}
