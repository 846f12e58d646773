package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// VideoRepository defines the interface for video persistence operations.
type VideoRepository interface {
	// Create persists a new video entity.
	Create(ctx context.Context, video *model.Video) error

	// GetByID retrieves a video by its unique identifier.
	// Returns nil and ErrVideoNotFound if the video does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// List retrieves one page of videos, optionally filtered to an owner
	// (uuid.Nil means all owners) and a title substring. Fetches up to
	// req.FetchLimit() rows so the caller can derive exact page metadata.
	List(ctx context.Context, ownerID uuid.UUID, titleQuery string, req pagination.Request) ([]*model.Video, error)

	// Update persists changes to an existing video entity.
	// Returns ErrVideoNotFound if the video does not exist.
	Update(ctx context.Context, video *model.Video) error

	// IncrementViews bumps the view counter without a full entity update.
	IncrementViews(ctx context.Context, id uuid.UUID) error

	// Delete removes a video.
	// Returns ErrVideoNotFound if the video does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
