package steamcmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeExitError mimics [exec.ExitError]
type fakeExitError struct {
	code int
}

func (e *fakeExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *fakeExitError) ExitCode() int {
	return e.code
}

// fakeRunner records command lines and replays exit codes.  Once codes are exhausted, every run succeeds.
type fakeRunner struct {
	calls  []string
	codes  []int
	err    error
	opts   []CmdOpts
	output string
}

func (fr *fakeRunner) RunCommand(ctx context.Context, cmdLine string, opts CmdOpts) (string, error) {
	fr.calls = append(fr.calls, cmdLine)
	fr.opts = append(fr.opts, opts)
	if fr.err != nil {
		return "", fr.err
	}
	if len(fr.codes) == 0 {
		return fr.output, nil
	}
	code := fr.codes[0]
	fr.codes = fr.codes[1:]
	if code == 0 {
		return fr.output, nil
	}
	return "", &fakeExitError{code: code}
}

// fakePrompter returns fixed credentials and counts prompts
type fakePrompter struct {
	password        string
	passwordPrompts int
	username        string
	usernamePrompts int
}

func (fp *fakePrompter) Username() (string, error) {
	fp.usernamePrompts++
	return fp.username, nil
}

func (fp *fakePrompter) Password() (string, error) {
	fp.passwordPrompts++
	return fp.password, nil
}

// Returns a logger that discards output
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

// Returns a logger writing into the returned buffer
func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buffer, &slog.HandlerOptions{})), buffer
}

// Creates a linux session in a temporary directory backed by the given runner
func newTestSession(t *testing.T, runner Runner, opts Opts) *Session {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = discardLogger()
	}
	if opts.Platform == "" {
		opts.Platform = "linux"
	}
	if opts.Prompter == nil {
		opts.Prompter = &fakePrompter{username: "prompted", password: "secret"}
	}
	opts.Runner = runner
	session, err := New(t.TempDir(), opts)
	require.NoError(t, err)
	return session
}
