package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestHTTPClientFetch(t *testing.T) {
	payload := []byte("uefi boot image payload")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uefi/prod/5" {
			http.NotFound(w, r)
			return
		}
		w.Write(payload)
	}))
	defer srv.Close()

	localPath := filepath.Join(t.TempDir(), "BOOTX64.EFI")

	result, err := NewHTTPClient().Fetch(context.Background(), srv.URL+"/uefi/prod/5", localPath)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if result.Size != int64(len(payload)) {
		t.Errorf("size mismatch: got %d, want %d", result.Size, len(payload))
	}

	sum := sha256.Sum256(payload)
	if result.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("sha256 mismatch: got %s", result.SHA256)
	}

	written, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("failed to read fetched file: %v", err)
	}
	if string(written) != string(payload) {
		t.Errorf("file content mismatch: got %q", written)
	}
}

func TestHTTPClientFetchNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	localPath := filepath.Join(t.TempDir(), "BOOTX64.EFI")

	if _, err := NewHTTPClient().Fetch(context.Background(), srv.URL+"/uefi/prod/999", localPath); err == nil {
		t.Fatal("expected error for 404 response")
	}
}

func TestHTTPClientFetchServerDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	localPath := filepath.Join(t.TempDir(), "BOOTX64.EFI")

	if _, err := NewHTTPClient().Fetch(context.Background(), srv.URL+"/uefi/dev/1", localPath); err == nil {
		t.Fatal("expected error for unreachable server")
	}
}
