package steamcmd

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// CmdOpts defines the options used in conjunction with [Runner.RunCommand]
type CmdOpts struct {
	// Attach connects the child to the current process' stdio.  Output is then not captured.
	Attach        bool
	Cwd           string
	Env           []string
	IgnoreSignals bool
}

// Runner runs a single command line through the platform shell.
// A non-zero exit must be reported as an error implementing `ExitCode() int` (as [exec.ExitError] does).
type Runner interface {
	RunCommand(ctx context.Context, cmdLine string, opts CmdOpts) (string, error)
}

// ShellRunner is the default [Runner].  It spawns `sh -c` (or `cmd /C` on windows).
type ShellRunner struct {
	Logger *slog.Logger
}

// Runs a command line through the shell and returns the stdout.
// Returns an error if the command fails to start or exits non-zero.
func (sr *ShellRunner) RunCommand(ctx context.Context, cmdLine string, opts CmdOpts) (string, error) {
	logger := sr.Logger
	if logger == nil {
		logger = slog.Default()
	}

	stderrBuffer := strings.Builder{}
	stdoutBuffer := strings.Builder{}
	command := shellCommand(ctx, cmdLine)
	command.Stderr = &stderrBuffer
	command.Stdout = &stdoutBuffer
	if opts.Attach {
		command.Stderr = os.Stderr
		command.Stdin = os.Stdin
		command.Stdout = os.Stdout
	}
	if opts.Cwd != "" {
		command.Dir = opts.Cwd
	}
	if opts.Env != nil {
		command.Env = opts.Env
	}

	err := command.Start()
	if err != nil {
		return "", err
	}
	if !opts.IgnoreSignals {
		unregister := handleSignal(logger, func(sig os.Signal) {
			logger.Warn("forward signal to steamcmd", "signal", sig.String())
			command.Process.Signal(sig)
		})
		defer unregister()
	}
	err = command.Wait()

	if err != nil && !opts.Attach {
		truncate := func(data string) string {
			if len(data) < 512 {
				return data
			}
			return "..." + data[len(data)-509:]
		}
		logger.Error("run cmd failed", "error", err.Error(), "stderr", truncate(stderrBuffer.String()), "stdout", truncate(stdoutBuffer.String()))
	}

	return stdoutBuffer.String(), err
}
