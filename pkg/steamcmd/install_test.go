package steamcmd

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeSteamCmdScript = "#!/bin/sh\nexit 0\n"

// Builds a steamcmd_linux.tar.gz lookalike
func buildTarGz(t *testing.T) []byte {
	t.Helper()
	buffer := &bytes.Buffer{}
	gzipWriter := gzip.NewWriter(buffer)
	tarWriter := tar.NewWriter(gzipWriter)
	require.NoError(t, tarWriter.WriteHeader(&tar.Header{Name: "linux32/", Typeflag: tar.TypeDir, Mode: 0755}))
	require.NoError(t, tarWriter.WriteHeader(&tar.Header{Name: "steamcmd.sh", Typeflag: tar.TypeReg, Mode: 0755, Size: int64(len(fakeSteamCmdScript))}))
	_, err := tarWriter.Write([]byte(fakeSteamCmdScript))
	require.NoError(t, err)
	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzipWriter.Close())
	return buffer.Bytes()
}

// Builds a steamcmd.zip lookalike
func buildZip(t *testing.T) []byte {
	t.Helper()
	buffer := &bytes.Buffer{}
	zipWriter := zip.NewWriter(buffer)
	writer, err := zipWriter.Create("steamcmd.exe")
	require.NoError(t, err)
	_, err = writer.Write([]byte("MZ"))
	require.NoError(t, err)
	require.NoError(t, zipWriter.Close())
	return buffer.Bytes()
}

// Builds a tarball with a member that escapes the destination
func buildEscapingTarGz(t *testing.T) []byte {
	t.Helper()
	buffer := &bytes.Buffer{}
	gzipWriter := gzip.NewWriter(buffer)
	tarWriter := tar.NewWriter(gzipWriter)
	require.NoError(t, tarWriter.WriteHeader(&tar.Header{Name: "../escape.sh", Typeflag: tar.TypeReg, Mode: 0755, Size: 1}))
	_, err := tarWriter.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzipWriter.Close())
	return buffer.Bytes()
}

// Serves the given archive and counts requests
func serveArchive(t *testing.T, data []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	requests := &atomic.Int32{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server, requests
}

func TestInstall(t *testing.T) {
	ctx := context.Background()

	t.Run("should download, extract and run steamcmd", func(t *testing.T) {
		t.Parallel()

		server, _ := serveArchive(t, buildTarGz(t))
		downloadDir := t.TempDir()
		runner := &fakeRunner{}
		session := newTestSession(t, runner, Opts{DownloadDir: downloadDir, Url: server.URL})

		require.False(t, session.IsInstalled())
		require.NoError(t, session.Install(ctx, false))
		assert.True(t, session.IsInstalled())
		assert.DirExists(t, filepath.Join(session.InstallDir(), "linux32"))

		stat, err := os.Stat(session.Exe())
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0755), stat.Mode().Perm())

		assert.NoFileExists(t, filepath.Join(downloadDir, "steamcmd.tar.gz"))
		require.Len(t, runner.calls, 1)
		assert.Equal(t, session.Exe()+" +quit", runner.calls[0])
	})

	t.Run("should extract zip archives on windows", func(t *testing.T) {
		t.Parallel()

		server, _ := serveArchive(t, buildZip(t))
		downloadDir := t.TempDir()
		runner := &fakeRunner{}
		session := newTestSession(t, runner, Opts{DownloadDir: downloadDir, Platform: "windows", Url: server.URL})

		require.NoError(t, session.Install(ctx, false))
		assert.FileExists(t, filepath.Join(session.InstallDir(), "steamcmd.exe"))
		assert.NoFileExists(t, filepath.Join(downloadDir, "steamcmd.zip"))
	})

	t.Run("should treat exit code 7 as benign", func(t *testing.T) {
		t.Parallel()

		server, _ := serveArchive(t, buildTarGz(t))
		runner := &fakeRunner{codes: []int{7}}
		session := newTestSession(t, runner, Opts{DownloadDir: t.TempDir(), Url: server.URL})

		assert.NoError(t, session.Install(ctx, false))
	})

	t.Run("should fail with the exit code of the first run", func(t *testing.T) {
		t.Parallel()

		server, _ := serveArchive(t, buildTarGz(t))
		runner := &fakeRunner{codes: []int{1}}
		session := newTestSession(t, runner, Opts{DownloadDir: t.TempDir(), Url: server.URL})

		err := session.Install(ctx, false)
		assert.ErrorIs(t, err, ErrInstall)
		var exitErr *ExitError
		require.True(t, errors.As(err, &exitErr))
		assert.Equal(t, 1, exitErr.Code)
	})

	t.Run("should refuse to reinstall unless forced", func(t *testing.T) {
		t.Parallel()

		server, requests := serveArchive(t, buildTarGz(t))
		runner := &fakeRunner{}
		session := newTestSession(t, runner, Opts{DownloadDir: t.TempDir(), Url: server.URL})

		require.NoError(t, session.Install(ctx, false))
		err := session.Install(ctx, false)
		assert.ErrorIs(t, err, ErrAlreadyInstalled)
		assert.ErrorIs(t, err, ErrInstall)
		assert.True(t, IsAlreadyInstalled(err))
		assert.Equal(t, int32(1), requests.Load())

		require.NoError(t, session.Install(ctx, true))
		assert.Equal(t, int32(2), requests.Load())
		assert.Len(t, runner.calls, 2)
	})

	t.Run("should fail on a non-200 response", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(server.Close)
		downloadDir := t.TempDir()
		runner := &fakeRunner{}
		session := newTestSession(t, runner, Opts{DownloadDir: downloadDir, Url: server.URL})

		err := session.Install(ctx, false)
		assert.ErrorIs(t, err, ErrInstall)
		assert.NoFileExists(t, filepath.Join(downloadDir, "steamcmd.tar.gz"))
		assert.Empty(t, runner.calls)
	})

	t.Run("should refuse archive members outside the install dir", func(t *testing.T) {
		t.Parallel()

		server, _ := serveArchive(t, buildEscapingTarGz(t))
		runner := &fakeRunner{}
		session := newTestSession(t, runner, Opts{DownloadDir: t.TempDir(), Url: server.URL})

		err := session.Install(ctx, false)
		assert.ErrorIs(t, err, ErrInstall)
		assert.NoFileExists(t, filepath.Join(filepath.Dir(session.InstallDir()), "escape.sh"))
		assert.Empty(t, runner.calls)
	})
}
