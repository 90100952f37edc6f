//go:build windows

package steamcmd

import (
	"context"
	"os/exec"
	"syscall"
)

// Wraps a command line in a `cmd /C` invocation.
// The raw command line is passed through untouched - go's argument escaping would otherwise mangle the quoted install directory.
func shellCommand(ctx context.Context, cmdLine string) *exec.Cmd {
	command := exec.CommandContext(ctx, "cmd")
	command.SysProcAttr = &syscall.SysProcAttr{CmdLine: "cmd /C " + cmdLine}
	return command
}
