// Package storage fetches the boot loader image to a local path, either
// over HTTPS from the public bootstrap server or from an internal S3
// mirror bucket.
package storage

import "context"

// Result contains fetch metadata.
type Result struct {
	LocalPath string
	SHA256    string
	Size      int64
}

// Fetcher downloads a boot image to localPath. The meaning of ref depends
// on the implementation: a full URL for the HTTPS client, an object key
// for the S3 mirror client.
type Fetcher interface {
	Fetch(ctx context.Context, ref, localPath string) (*Result, error)
}
