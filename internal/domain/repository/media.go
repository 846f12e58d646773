package repository

import (
	"context"
	"io"

	"github.com/videotube-dev/videotube/internal/domain/model"
)

// MediaStorage defines the interface for media upload/destroy operations.
// Implementations should be provided by the infrastructure layer (e.g., MinIO).
type MediaStorage interface {
	// Upload stores a media blob and returns its public URL plus the opaque
	// identifier needed to destroy it later.
	Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (model.MediaAsset, error)

	// Destroy removes an uploaded asset. Destroying an absent asset is a no-op.
	Destroy(ctx context.Context, opaqueID string) error
}
