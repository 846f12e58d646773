package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/infrastructure/metrics"
	"github.com/videotube-dev/videotube/internal/pagination"
)

const likeColumns = `id, owner_id, target, target_id, created_at`

// likeSortColumns maps API sort field names to likes columns.
var likeSortColumns = map[string]string{
	"createdAt": "created_at",
}

// LikeRepository implements repository.LikeRepository using PostgreSQL.
type LikeRepository struct {
	db DBTX
}

// NewLikeRepository creates a new LikeRepository instance.
func NewLikeRepository(db DBTX) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create persists a new like.
func (r *LikeRepository) Create(ctx context.Context, like *model.Like) error {
	const query = `
		INSERT INTO likes (id, owner_id, target, target_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableLikes).Inc()

	_, err := r.db.Exec(ctx, query,
		like.ID,
		like.OwnerID,
		string(like.Target),
		like.TargetID,
		like.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create like: %w", err)
	}

	return nil
}

// GetByOwnerAndTarget retrieves the like a user placed on a target.
// Returns nil, nil when the user has not liked the target.
func (r *LikeRepository) GetByOwnerAndTarget(ctx context.Context, ownerID uuid.UUID, target model.LikeTarget, targetID uuid.UUID) (*model.Like, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM likes
		WHERE owner_id = $1 AND target = $2 AND target_id = $3
	`, likeColumns)

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableLikes).Inc()

	like, err := scanLike(r.db.QueryRow(ctx, query, ownerID, string(target), targetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get like: %w", err)
	}

	return like, nil
}

// ListByTarget retrieves one page of a target's likes using keyset pagination.
func (r *LikeRepository) ListByTarget(ctx context.Context, target model.LikeTarget, targetID uuid.UUID, req pagination.Request) ([]*model.Like, error) {
	column, err := sortColumn(likeSortColumns, req.SortBy)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM likes WHERE target = $1 AND target_id = $2`, likeColumns)
	args := []any{string(target), targetID}

	if req.HasCursor() {
		anchor, err := cursorAnchor(ctx, r.db, "likes", column, req.Cursor)
		if err != nil {
			return nil, err
		}
		args = append(args, anchor, req.Cursor)
		query += " AND " + cursorPredicate(column, req.Order, len(args)-1, len(args))
	}

	args = append(args, req.FetchLimit())
	query += fmt.Sprintf(" %s LIMIT $%d", orderClause(column, req.Order), len(args))

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableLikes).Inc()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list likes: %w", err)
	}
	defer rows.Close()

	var likes []*model.Like
	for rows.Next() {
		like, err := scanLike(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan like: %w", err)
		}
		likes = append(likes, like)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating likes: %w", err)
	}

	return likes, nil
}

// Delete removes a like. Deleting an absent like is a no-op.
func (r *LikeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM likes WHERE id = $1`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableLikes).Inc()

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	return nil
}

func scanLike(row pgx.Row) (*model.Like, error) {
	var (
		like   model.Like
		target string
	)

	err := row.Scan(
		&like.ID,
		&like.OwnerID,
		&target,
		&like.TargetID,
		&like.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	like.Target = model.LikeTarget(target)
	return &like, nil
}

// Compile-time verification that LikeRepository implements repository.LikeRepository.
var _ repository.LikeRepository = (*LikeRepository)(nil)
