package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// LikeRepository defines the interface for like persistence operations.
type LikeRepository interface {
	// Create persists a new like.
	Create(ctx context.Context, like *model.Like) error

	// GetByOwnerAndTarget retrieves the like a user placed on a target.
	// Returns nil, nil when the user has not liked the target.
	GetByOwnerAndTarget(ctx context.Context, ownerID uuid.UUID, target model.LikeTarget, targetID uuid.UUID) (*model.Like, error)

	// ListByTarget retrieves one page of a target's likes, fetching up to
	// req.FetchLimit() rows.
	ListByTarget(ctx context.Context, target model.LikeTarget, targetID uuid.UUID, req pagination.Request) ([]*model.Like, error)

	// Delete removes a like. Deleting an absent like is a no-op.
	Delete(ctx context.Context, id uuid.UUID) error
}
