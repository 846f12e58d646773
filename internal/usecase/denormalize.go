package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
)

// Owned pairs a record with its owner's public summary. Owner is nil when
// the owning user no longer exists; the record itself is always kept.
type Owned[T any] struct {
	Item  *T                 `json:"item"`
	Owner *model.UserSummary `json:"owner"`
}

// denormalizeOwners joins items with their owners via the user directory.
// One BulkFetch call for the whole list; the output has the same length and
// order as the input.
func denormalizeOwners[T any](ctx context.Context, directory repository.UserDirectory, items []*T, ownerID func(*T) uuid.UUID) ([]Owned[T], error) {
	out := make([]Owned[T], len(items))
	if len(items) == 0 {
		return out, nil
	}

	ids := make([]uuid.UUID, len(items))
	for i, item := range items {
		ids[i] = ownerID(item)
	}

	owners, err := directory.BulkFetch(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i, item := range items {
		out[i] = Owned[T]{Item: item, Owner: owners[i]}
	}
	return out, nil
}
