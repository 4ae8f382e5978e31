package binary

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
)

// DefaultUserAgent is the User-Agent header sent with requests
const DefaultUserAgent = "ec-launcher/1.0"

// StatusError is returned for a non-success HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d for %s", e.StatusCode, e.URL)
}

// Downloader performs single-attempt HTTP downloads.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a new downloader. A nil client uses a client
// without a timeout: a stalled server stalls the download.
func NewDownloader(client *http.Client, userAgent string) *Downloader {
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// GitHub release assets redirect to object storage
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Downloader{client: client, userAgent: userAgent}
}

// DownloadToFile downloads url to destPath. The body is written to
// destPath+".tmp" and renamed into place only once it is complete, so
// destPath never holds a partial download.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	tmpPath := destPath + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		return fmt.Errorf("copy response body: %w", err)
	}

	// Close before rename; Windows cannot rename an open file
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}
