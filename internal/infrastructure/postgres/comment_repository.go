package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/infrastructure/metrics"
	"github.com/videotube-dev/videotube/internal/pagination"
)

const commentColumns = `id, video_id, owner_id, content, created_at, updated_at`

// commentSortColumns maps API sort field names to comments columns.
var commentSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db DBTX
}

// NewCommentRepository creates a new CommentRepository instance.
func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create persists a new comment.
func (r *CommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	const query = `
		INSERT INTO comments (id, video_id, owner_id, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableComments).Inc()

	_, err := r.db.Exec(ctx, query,
		comment.ID,
		comment.VideoID,
		comment.OwnerID,
		comment.Content,
		comment.CreatedAt,
		comment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by its unique identifier.
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	query := fmt.Sprintf(`SELECT %s FROM comments WHERE id = $1`, commentColumns)

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableComments).Inc()

	comment, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to get comment by ID: %w", err)
	}

	return comment, nil
}

// ListByVideo retrieves one page of a video's comments using keyset pagination.
func (r *CommentRepository) ListByVideo(ctx context.Context, videoID uuid.UUID, req pagination.Request) ([]*model.Comment, error) {
	column, err := sortColumn(commentSortColumns, req.SortBy)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM comments WHERE video_id = $1`, commentColumns)
	args := []any{videoID}

	if req.HasCursor() {
		anchor, err := cursorAnchor(ctx, r.db, "comments", column, req.Cursor)
		if err != nil {
			return nil, err
		}
		args = append(args, anchor, req.Cursor)
		query += " AND " + cursorPredicate(column, req.Order, len(args)-1, len(args))
	}

	args = append(args, req.FetchLimit())
	query += fmt.Sprintf(" %s LIMIT $%d", orderClause(column, req.Order), len(args))

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableComments).Inc()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}

	return comments, nil
}

// UpdateContent replaces the content of an existing comment.
func (r *CommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error) {
	query := fmt.Sprintf(`
		UPDATE comments
		SET content = $2, updated_at = $3
		WHERE id = $1
		RETURNING %s
	`, commentColumns)

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableComments).Inc()

	comment, err := scanComment(r.db.QueryRow(ctx, query, id, content, time.Now()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

// Delete removes a comment.
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM comments WHERE id = $1`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableComments).Inc()

	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrCommentNotFound
	}

	return nil
}

func scanComment(row pgx.Row) (*model.Comment, error) {
	var comment model.Comment

	err := row.Scan(
		&comment.ID,
		&comment.VideoID,
		&comment.OwnerID,
		&comment.Content,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &comment, nil
}

// Compile-time verification that CommentRepository implements repository.CommentRepository.
var _ repository.CommentRepository = (*CommentRepository)(nil)
