package steamcmd

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Extracts a src archive into a dest folder.
// Returns an error if the archive type is unrecognized.
// Returns an error if an archive member would be written outside of dest.
func (s *Session) extract(src string, dest string) error {
	s.logger.Info("extract", "src", src, "dest", dest)
	if strings.HasSuffix(src, ".tar.gz") {
		return extractTarGz(src, dest)
	} else if strings.HasSuffix(src, ".zip") {
		return extractZip(src, dest)
	} else {
		return fmt.Errorf("unrecognized file type %s", src)
	}
}

// Resolves an archive member name to a path beneath dest.
// Returns an error if the member escapes dest.
func memberPath(dest string, name string) (string, error) {
	path := filepath.Join(dest, filepath.FromSlash(name))
	rel, err := filepath.Rel(dest, path)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive member %s escapes %s", name, dest)
	}
	return path, nil
}

// Writes the contents of reader to path with the given mode, creating parent directories as needed
func writeMember(path string, mode os.FileMode, reader io.Reader) error {
	err := os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return err
	}
	handle, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer handle.Close()
	_, err = io.Copy(handle, reader)
	if err != nil {
		return err
	}
	err = handle.Close()
	if err != nil {
		return err
	}
	// the umask may have stripped the executable bit
	return os.Chmod(path, mode)
}

// Extracts a gzipped tarball into dest
func extractTarGz(src string, dest string) error {
	handle, err := os.Open(src)
	if err != nil {
		return err
	}
	defer handle.Close()

	gzipReader, err := gzip.NewReader(handle)
	if err != nil {
		return err
	}
	defer gzipReader.Close()

	tarReader := tar.NewReader(gzipReader)
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		path, err := memberPath(dest, header.Name)
		if err != nil {
			return err
		}
		switch header.Typeflag {
		case tar.TypeDir:
			err = os.MkdirAll(path, 0755)
		case tar.TypeReg:
			err = writeMember(path, header.FileInfo().Mode().Perm(), tarReader)
		default:
			continue
		}
		if err != nil {
			return err
		}
	}
}

// Extracts a zip archive into dest
func extractZip(src string, dest string) error {
	reader, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer reader.Close()

	for _, file := range reader.File {
		path, err := memberPath(dest, file.Name)
		if err != nil {
			return err
		}
		if file.FileInfo().IsDir() {
			err = os.MkdirAll(path, 0755)
			if err != nil {
				return err
			}
			continue
		}
		mode := file.Mode().Perm()
		if mode == 0 {
			mode = 0755
		}
		member, err := file.Open()
		if err != nil {
			return err
		}
		err = writeMember(path, mode, member)
		member.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
