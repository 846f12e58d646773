package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/infrastructure/metrics"
)

// ResolverCache is the batched cache surface the resolver reads and
// repopulates. GetBatch is aligned with its input (nil slot per miss).
type ResolverCache[T any] interface {
	GetBatch(ctx context.Context, ids []uuid.UUID) ([]*T, error)
	PutBatch(ctx context.Context, items []*T) error
}

// ResolverStore fetches the entities the cache could not serve.
type ResolverStore[T any] interface {
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*T, error)
}

// BulkResolver resolves a list of entity IDs against the cache first and the
// store second, with exactly one batched round trip to each. Cache failures
// degrade to misses; store failures are fatal.
type BulkResolver[T any] struct {
	name  string
	cache ResolverCache[T]
	store ResolverStore[T]
	id    func(*T) uuid.UUID
}

// NewBulkResolver creates a resolver. name labels log entries (e.g. "user").
func NewBulkResolver[T any](name string, cache ResolverCache[T], store ResolverStore[T], id func(*T) uuid.UUID) *BulkResolver[T] {
	return &BulkResolver[T]{name: name, cache: cache, store: store, id: id}
}

// Resolve returns the entities for ids in input order. Duplicate IDs resolve
// to duplicate entries; IDs that exist in neither cache nor store are dropped
// from the slice. The returned map holds every resolved entity by ID, for
// callers that need to distinguish missing entries.
func (r *BulkResolver[T]) Resolve(ctx context.Context, ids []uuid.UUID) ([]*T, map[uuid.UUID]*T, error) {
	if len(ids) == 0 {
		return nil, map[uuid.UUID]*T{}, nil
	}

	unique := dedupeIDs(ids)

	cached, err := r.cache.GetBatch(ctx, unique)
	if err != nil {
		// Degrade to an all-miss read; the store fetch below covers everything.
		slog.Warn("bulk cache read failed, falling back to store",
			"resolver", r.name,
			"error", err,
		)
		cached = make([]*T, len(unique))
	}

	resolved := make(map[uuid.UUID]*T, len(unique))
	var missing []uuid.UUID
	for i, id := range unique {
		if cached[i] != nil {
			resolved[id] = cached[i]
			metrics.BulkResolutionsTotal.WithLabelValues(metrics.ResolveSourceCache).Inc()
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		fetched, err := r.store.FindByIDs(ctx, missing)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch %s batch: %w", r.name, err)
		}

		for _, item := range fetched {
			resolved[r.id(item)] = item
			metrics.BulkResolutionsTotal.WithLabelValues(metrics.ResolveSourceStore).Inc()
		}

		if len(fetched) > 0 {
			if err := r.cache.PutBatch(ctx, fetched); err != nil {
				slog.Warn("bulk cache repopulation failed",
					"resolver", r.name,
					"count", len(fetched),
					"error", err,
				)
			}
		}

		for _, id := range missing {
			if _, ok := resolved[id]; !ok {
				metrics.BulkResolutionsTotal.WithLabelValues(metrics.ResolveSourceUnresolved).Inc()
			}
		}
	}

	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		if item, ok := resolved[id]; ok {
			out = append(out, item)
		}
	}
	return out, resolved, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	unique := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
