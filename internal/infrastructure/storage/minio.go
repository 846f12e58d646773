// Package storage implements the media store on MinIO: upload a blob, get
// back a public URL plus the opaque identifier needed to destroy it later.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/xid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
)

// ErrBucketNotFound is returned when the configured bucket does not exist.
var ErrBucketNotFound = errors.New("bucket not found")

// minioClient defines the interface for MinIO operations.
// This abstraction allows for easier unit testing with mocks.
type minioClient interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// ClientConfig holds configuration for the MinIO media store.
type ClientConfig struct {
	Endpoint string
	// PublicBaseURL is the external-facing base for served media URLs.
	PublicBaseURL string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
}

// Client wraps a MinIO client and implements repository.MediaStorage.
type Client struct {
	client        minioClient
	bucket        string
	publicBaseURL string
}

// NewClient creates a new MinIO media store client.
// It verifies the bucket exists during initialization to fail fast on misconfiguration.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return newClientWithMinioClient(ctx, client, cfg)
}

// newClientWithMinioClient creates a Client with a given minioClient
// implementation. This is used for dependency injection in tests.
func newClientWithMinioClient(ctx context.Context, client minioClient, cfg ClientConfig) (*Client, error) {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, cfg.Bucket)
	}

	return &Client{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

// Upload stores a media blob under a generated key and returns the asset
// reference. The key doubles as the opaque id used by Destroy.
func (c *Client) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (model.MediaAsset, error) {
	key := path.Join("media", xid.New().String())

	_, err := c.client.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return model.MediaAsset{}, fmt.Errorf("failed to upload object: %w", err)
	}

	return model.MediaAsset{
		URL:      fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, key),
		OpaqueID: key,
	}, nil
}

// Destroy removes an uploaded asset. Destroying an absent asset is a no-op.
func (c *Client) Destroy(ctx context.Context, opaqueID string) error {
	if opaqueID == "" {
		return nil
	}

	err := c.client.RemoveObject(ctx, c.bucket, opaqueID, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to remove object: %w", err)
	}

	return nil
}

// Compile-time verification that Client implements repository.MediaStorage.
var _ repository.MediaStorage = (*Client)(nil)
