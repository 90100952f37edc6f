package steamcmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Returns true if the steamcmd executable exists in the installation directory
func (s *Session) IsInstalled() bool {
	stat, err := os.Stat(s.exe)
	return err == nil && !stat.IsDir()
}

// Downloads and extracts steamcmd into the installation directory, then lets it update itself.
// Returns [ErrAlreadyInstalled] if steamcmd is present and force is false.
// Returns an error wrapping [ErrInstall] if the download, the extraction or the first run fails.
func (s *Session) Install(ctx context.Context, force bool) error {
	if s.IsInstalled() && !force {
		return ErrAlreadyInstalled
	}

	s.logger.Info("install steamcmd", "platform", s.platform, "dir", s.installDir, "force", force)
	archive := filepath.Join(s.downloadDir, s.archive)
	err := s.download(ctx, s.url, archive)
	if err != nil {
		os.Remove(archive)
		return fmt.Errorf("%w: download %s: %w", ErrInstall, s.url, err)
	}
	err = s.extract(archive, s.installDir)
	removeErr := os.Remove(archive)
	if err != nil {
		return fmt.Errorf("%w: extract %s: %w", ErrInstall, archive, err)
	}
	if removeErr != nil {
		return fmt.Errorf("%w: %w", ErrInstall, removeErr)
	}

	s.logger.Info("run steamcmd first run update", "exe", s.exe)
	_, err = s.runner.RunCommand(ctx, fmt.Sprintf("%s +quit", s.exe), CmdOpts{Attach: true})
	if err == nil {
		return nil
	}
	code, ok := exitCode(err)
	if !ok {
		return fmt.Errorf("%w: %w", ErrInstall, err)
	}
	if code == exitCodeFirstRun {
		s.logger.Info("steamcmd returned exit code 7 on fresh installation - this is expected", "code", code)
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInstall, &ExitError{Code: code})
}

// Returns true if the error indicates steamcmd was already installed
func IsAlreadyInstalled(err error) bool {
	return errors.Is(err, ErrAlreadyInstalled)
}
