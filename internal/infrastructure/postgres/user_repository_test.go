package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
)

func newUserRows(users ...*model.User) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{
		"id", "username", "email", "full_name", "biography",
		"avatar_url", "avatar_opaque_id", "cover_url", "cover_opaque_id",
		"created_at", "updated_at",
	})
	for _, u := range users {
		rows.AddRow(
			u.ID, u.Username, u.Email, u.FullName, u.Biography,
			u.Avatar.URL, u.Avatar.OpaqueID, u.CoverImage.URL, u.CoverImage.OpaqueID,
			u.CreatedAt, u.UpdatedAt,
		)
	}
	return rows
}

func storedUser() *model.User {
	now := time.Now()
	return &model.User{
		ID:        uuid.New(),
		Username:  "bob",
		Email:     "bob@example.com",
		FullName:  "Bob Example",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserRepository_Create_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	user := storedUser()
	mock.ExpectExec("INSERT INTO users").
		WithArgs(
			user.ID, user.Username, user.Email, user.FullName, user.Biography,
			user.Avatar.URL, user.Avatar.OpaqueID, user.CoverImage.URL, user.CoverImage.OpaqueID,
			pgxmock.AnyArg(), pgxmock.AnyArg(),
		).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	repo := NewUserRepository(mock)
	err = repo.Create(context.Background(), user)

	if !errors.Is(err, repository.ErrDuplicateUser) {
		t.Errorf("Create() error = %v, want ErrDuplicateUser", err)
	}
}

func TestUserRepository_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	user := storedUser()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE id").
		WithArgs(user.ID).
		WillReturnRows(newUserRows(user))

	repo := NewUserRepository(mock)
	got, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	if got.ID != user.ID {
		t.Errorf("ID = %v, want %v", got.ID, user.ID)
	}
	if got.Username != user.Username {
		t.Errorf("Username = %q, want %q", got.Username, user.Username)
	}
}

func TestUserRepository_FindByIDs(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	u1 := storedUser()
	u2 := storedUser()
	ids := []uuid.UUID{u1.ID, u2.ID, uuid.New()}

	// One batched query; ids without a row are simply absent.
	mock.ExpectQuery(`SELECT (.+) FROM users WHERE id = ANY\(\$1\)`).
		WithArgs(ids).
		WillReturnRows(newUserRows(u1, u2))

	repo := NewUserRepository(mock)
	got, err := repo.FindByIDs(context.Background(), ids)
	if err != nil {
		t.Fatalf("FindByIDs() error = %v", err)
	}

	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUserRepository_FindByIDs_Empty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	repo := NewUserRepository(mock)
	got, err := repo.FindByIDs(context.Background(), nil)
	if err != nil {
		t.Fatalf("FindByIDs() error = %v", err)
	}
	if got != nil {
		t.Errorf("FindByIDs(nil) = %v, want nil without touching the store", got)
	}
}

func TestUserRepository_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM users").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewUserRepository(mock)
	err = repo.Delete(context.Background(), id)

	if !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("Delete() error = %v, want ErrUserNotFound", err)
	}
}
