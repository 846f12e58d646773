package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// CommentRepository defines the interface for comment persistence operations.
type CommentRepository interface {
	// Create persists a new comment.
	Create(ctx context.Context, comment *model.Comment) error

	// GetByID retrieves a comment by its unique identifier.
	// Returns nil and ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error)

	// ListByVideo retrieves one page of a video's comments, fetching up to
	// req.FetchLimit() rows.
	ListByVideo(ctx context.Context, videoID uuid.UUID, req pagination.Request) ([]*model.Comment, error)

	// UpdateContent replaces the content of an existing comment.
	// Returns ErrCommentNotFound if the comment does not exist.
	UpdateContent(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error)

	// Delete removes a comment.
	// Returns ErrCommentNotFound if the comment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
