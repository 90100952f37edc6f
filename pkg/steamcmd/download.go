package steamcmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Downloads a url to the target path.
// Returns an error if the download fails.
func (s *Session) download(ctx context.Context, url string, dest string) error {
	handle, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer handle.Close()

	s.logger.Info("download", "url", url, "file", dest)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	response, err := s.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s sent non-200 status code: %d", url, response.StatusCode)
	}

	chunkSize := 1024 * 1024
	_, err = io.CopyBuffer(handle, response.Body, make([]byte, chunkSize))
	if err != nil {
		return err
	}
	return handle.Close()
}
