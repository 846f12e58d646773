package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/pagination"
)

func newCommentRows(comments ...*model.Comment) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "video_id", "owner_id", "content", "created_at", "updated_at"})
	for _, c := range comments {
		rows.AddRow(c.ID, c.VideoID, c.OwnerID, c.Content, c.CreatedAt, c.UpdatedAt)
	}
	return rows
}

func TestCommentRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	comment, err := model.NewComment(uuid.New(), uuid.New(), "nice video")
	if err != nil {
		t.Fatalf("NewComment failed: %v", err)
	}

	mock.ExpectExec("INSERT INTO comments").
		WithArgs(
			comment.ID,
			comment.VideoID,
			comment.OwnerID,
			comment.Content,
			pgxmock.AnyArg(),
			pgxmock.AnyArg(),
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewCommentRepository(mock)
	if err := repo.Create(context.Background(), comment); err != nil {
		t.Errorf("Create() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCommentRepository_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM comments WHERE id").
		WithArgs(id).
		WillReturnRows(newCommentRows())

	repo := NewCommentRepository(mock)
	_, err = repo.GetByID(context.Background(), id)

	if !errors.Is(err, repository.ErrCommentNotFound) {
		t.Errorf("GetByID() error = %v, want ErrCommentNotFound", err)
	}
}

func TestCommentRepository_ListByVideo_FirstPage(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	videoID := uuid.New()
	now := time.Now()
	comments := []*model.Comment{
		{ID: uuid.New(), VideoID: videoID, OwnerID: uuid.New(), Content: "a", CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), VideoID: videoID, OwnerID: uuid.New(), Content: "b", CreatedAt: now, UpdatedAt: now},
	}

	// First page: no cursor predicate, limit+1 look-ahead.
	mock.ExpectQuery(`SELECT (.+) FROM comments WHERE video_id = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2`).
		WithArgs(videoID, 11).
		WillReturnRows(newCommentRows(comments...))

	repo := NewCommentRepository(mock)
	req := pagination.Request{}.Normalize()

	got, err := repo.ListByVideo(context.Background(), videoID, req)
	if err != nil {
		t.Fatalf("ListByVideo() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCommentRepository_ListByVideo_WithCursor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	videoID := uuid.New()
	cursor := uuid.New()
	anchor := time.Now()

	// The cursor row's sort value is resolved first, then compared inline.
	mock.ExpectQuery(`SELECT created_at FROM comments WHERE id = \$1`).
		WithArgs(cursor).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(anchor))
	mock.ExpectQuery(`SELECT (.+) FROM comments WHERE video_id = \$1 AND \(created_at, id\) < \(\$2, \$3\) ORDER BY created_at DESC, id DESC LIMIT \$4`).
		WithArgs(videoID, anchor, cursor, 11).
		WillReturnRows(newCommentRows())

	repo := NewCommentRepository(mock)
	req := pagination.Request{Cursor: cursor}.Normalize()

	if _, err := repo.ListByVideo(context.Background(), videoID, req); err != nil {
		t.Fatalf("ListByVideo() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCommentRepository_ListByVideo_DeletedCursorRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	cursor := uuid.New()
	mock.ExpectQuery(`SELECT created_at FROM comments WHERE id = \$1`).
		WithArgs(cursor).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}))

	repo := NewCommentRepository(mock)
	req := pagination.Request{Cursor: cursor}.Normalize()

	_, err = repo.ListByVideo(context.Background(), uuid.New(), req)
	if !errors.Is(err, repository.ErrInvalidCursor) {
		t.Errorf("ListByVideo() error = %v, want ErrInvalidCursor when the cursor row is gone", err)
	}
}

func TestCommentRepository_ListByVideo_InvalidSortField(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	repo := NewCommentRepository(mock)
	req := pagination.Request{SortBy: "owner; DROP TABLE comments"}.Normalize()

	_, err = repo.ListByVideo(context.Background(), uuid.New(), req)
	if !errors.Is(err, repository.ErrInvalidSortField) {
		t.Errorf("ListByVideo() error = %v, want ErrInvalidSortField", err)
	}
}

func TestCommentRepository_UpdateContent_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectQuery("UPDATE comments").
		WithArgs(id, "new content", pgxmock.AnyArg()).
		WillReturnRows(newCommentRows())

	repo := NewCommentRepository(mock)
	_, err = repo.UpdateContent(context.Background(), id, "new content")

	if !errors.Is(err, repository.ErrCommentNotFound) {
		t.Errorf("UpdateContent() error = %v, want ErrCommentNotFound", err)
	}
}

func TestCommentRepository_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM comments").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	repo := NewCommentRepository(mock)
	if err := repo.Delete(context.Background(), id); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}
