package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// Name of the archive written by ToFile.
const ArchiveName = "gtfs.zip"

type GetOptions struct {
	MaxSize int
	Timeout time.Duration
}

// Gets a file.
func HTTPGet(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error) {
	client := &http.Client{
		Timeout: options.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(options.MaxSize))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}

// Downloads url into dir as ArchiveName and returns the archive path.
func ToFile(ctx context.Context, url string, dir string, headers map[string]string, options GetOptions) (string, error) {
	body, err := HTTPGet(ctx, url, headers, options)
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, ArchiveName)
	if err := os.WriteFile(path, body, 0644); err != nil {
		return "", fmt.Errorf("writing: %w", err)
	}

	return path, nil
}
