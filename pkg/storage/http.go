package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/mik-tf/tfbootmaker/pkg/errors"
)

// HTTPClient fetches the boot image over HTTP(S).
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates an HTTPS fetcher.
func NewHTTPClient() *HTTPClient {
	return &HTTPClient{client: &http.Client{}}
}

// Fetch downloads ref (a full URL) to localPath and computes its SHA256.
func (c *HTTPClient) Fetch(ctx context.Context, ref, localPath string) (*Result, error) {
	slog.Info("http_download_start", "url", ref, "local_path", localPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Error("http_download_failed", "url", ref, "error", err)
		return nil, errors.Wrap(err, "failed to download boot image")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Error("http_download_failed", "url", ref, "status", resp.StatusCode)
		return nil, fmt.Errorf("failed to download boot image: unexpected status %d", resp.StatusCode)
	}

	f, err := os.Create(localPath)
	if err != nil {
		slog.Error("local_file_creation_failed", "path", localPath, "error", err)
		return nil, errors.Wrap(err, "failed to create local file")
	}
	defer f.Close()

	hash := sha256.New()
	writer := io.MultiWriter(f, hash)

	size, err := io.Copy(writer, resp.Body)
	if err != nil {
		slog.Error("http_download_failed", "url", ref, "error", err)
		return nil, errors.Wrap(err, "failed to write boot image")
	}

	checksum := hex.EncodeToString(hash.Sum(nil))

	slog.Info("http_download_complete",
		"url", ref,
		"size_kb", size/1024,
		"local_path", localPath,
		"sha256", checksum[:16]+"...",
	)

	return &Result{
		LocalPath: localPath,
		SHA256:    checksum,
		Size:      size,
	}, nil
}
