package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
)

// UserDirectory resolves user summaries in bulk. The result is aligned with
// the input: index i holds the summary for ids[i], or nil when that user does
// not exist. Duplicate IDs yield duplicate entries.
//
// Services that own the users table back this with their local resolver;
// sibling services back it with an HTTP client against the user service.
type UserDirectory interface {
	BulkFetch(ctx context.Context, ids []uuid.UUID) ([]*model.UserSummary, error)
}
