//go:build !windows

package steamcmd

import (
	"context"
	"os/exec"
)

// Wraps a command line in an `sh -c` invocation
func shellCommand(ctx context.Context, cmdLine string) *exec.Cmd {
	return exec.CommandContext(ctx, "sh", "-c", cmdLine)
}
