package steamcmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Writes an executable steamcmd.sh that records its arguments and exits with the given code
func writeSteamCmdScript(t *testing.T, dir string, code string) string {
	t.Helper()
	script := "#!/bin/sh\necho \"$@\" >> \"$(dirname \"$0\")/args.txt\"\nexit " + code + "\n"
	path := filepath.Join(dir, "steamcmd.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return filepath.Join(dir, "args.txt")
}

func TestShellRunner(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("shell runner tests require linux")
	}
	ctx := context.Background()

	t.Run("RunCommand", func(t *testing.T) {
		t.Parallel()

		t.Run("should capture stdout", func(t *testing.T) {
			t.Parallel()

			runner := &ShellRunner{Logger: discardLogger()}
			output, err := runner.RunCommand(ctx, "echo hello", CmdOpts{IgnoreSignals: true})
			require.NoError(t, err)
			assert.Equal(t, "hello\n", output)
		})

		t.Run("should report the exit code", func(t *testing.T) {
			t.Parallel()

			runner := &ShellRunner{Logger: discardLogger()}
			_, err := runner.RunCommand(ctx, "exit 10", CmdOpts{})
			require.Error(t, err)
			code, ok := exitCode(err)
			require.True(t, ok)
			assert.Equal(t, 10, code)
		})

		t.Run("should run in the given directory", func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			runner := &ShellRunner{Logger: discardLogger()}
			output, err := runner.RunCommand(ctx, "pwd", CmdOpts{Cwd: dir})
			require.NoError(t, err)
			resolved, err := filepath.EvalSymlinks(dir)
			require.NoError(t, err)
			assert.Equal(t, resolved, strings.TrimSpace(output))
		})
	})

	t.Run("Session", func(t *testing.T) {
		t.Parallel()

		t.Run("should retry a timing out steamcmd", func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			argsFile := writeSteamCmdScript(t, dir, "10")
			session, err := New(dir, Opts{Logger: discardLogger(), Platform: "linux"})
			require.NoError(t, err)

			cmd := NewCommand()
			cmd.ForceInstallDir(dir)
			cmd.AppUpdate(740, AppUpdateOpts{Validate: true})
			_, err = session.Execute(ctx, cmd, 2)
			assert.ErrorIs(t, err, ErrDownload)

			data, err := os.ReadFile(argsFile)
			require.NoError(t, err)
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			require.Len(t, lines, 2)
			assert.Equal(t, "+login anonymous +force_install_dir "+dir+" +app_update 740 validate +quit", lines[0])
		})

		t.Run("should surface other exit codes", func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeSteamCmdScript(t, dir, "8")
			session, err := New(dir, Opts{Logger: discardLogger(), Platform: "linux"})
			require.NoError(t, err)

			code, err := session.Execute(ctx, NewCommand(), 3)
			assert.Equal(t, 8, code)
			var exitErr *ExitError
			assert.True(t, errors.As(err, &exitErr))
		})
	})
}
