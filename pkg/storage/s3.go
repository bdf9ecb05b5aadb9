package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/mik-tf/tfbootmaker/pkg/errors"
)

// s3API is the slice of the S3 client the mirror needs.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// MirrorClient fetches boot images from an internal S3 mirror bucket.
// Air-gapped and bandwidth-constrained sites mirror the bootstrap tree
// (uefi/<code>/<farm-id>) into a bucket and point the tool at it.
type MirrorClient struct {
	s3Client s3API
	bucket   string
}

// NewMirrorClient creates an S3 mirror fetcher with anonymous credentials.
func NewMirrorClient(ctx context.Context, bucket, region string) (*MirrorClient, error) {
	slog.Info("mirror_client_init", "bucket", bucket, "region", region)

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(aws.AnonymousCredentials{}),
	)
	if err != nil {
		slog.Error("aws_config_load_failed", "error", err)
		return nil, errors.Wrap(err, "failed to load AWS config")
	}

	return &MirrorClient{
		s3Client: s3.NewFromConfig(cfg),
		bucket:   bucket,
	}, nil
}

// Fetch downloads ref (an object key) to localPath and computes its SHA256.
func (c *MirrorClient) Fetch(ctx context.Context, ref, localPath string) (*Result, error) {
	slog.Info("mirror_download_start", "bucket", c.bucket, "key", ref)

	result, err := c.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(ref),
	})
	if err != nil {
		slog.Error("mirror_get_object_failed", "key", ref, "error", err)
		return nil, errors.Wrap(err, "failed to get object from mirror")
	}
	defer result.Body.Close()

	f, err := os.Create(localPath)
	if err != nil {
		slog.Error("local_file_creation_failed", "path", localPath, "error", err)
		return nil, errors.Wrap(err, "failed to create local file")
	}
	defer f.Close()

	hash := sha256.New()
	writer := io.MultiWriter(f, hash)

	size, err := io.Copy(writer, result.Body)
	if err != nil {
		slog.Error("mirror_download_failed", "key", ref, "error", err)
		return nil, errors.Wrap(err, "failed to download object")
	}

	checksum := hex.EncodeToString(hash.Sum(nil))

	slog.Info("mirror_download_complete",
		"key", ref,
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

// Exists checks whether an object key is present in the mirror.
func (c *MirrorClient) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		if stderrors.As(err, &notFound) {
			slog.Info("mirror_object_not_found", "key", key)
			return false, nil
		}
		slog.Error("mirror_head_object_failed", "key", key, "error", err)
		return false, errors.Wrap(err, "failed to check object existence")
	}

	slog.Info("mirror_object_exists", "key", key)
	return true, nil
}
