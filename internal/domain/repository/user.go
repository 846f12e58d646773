package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
)

// UserRepository defines the interface for user persistence operations.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
type UserRepository interface {
	// Create persists a new user entity.
	// Returns ErrDuplicateUser if the username or email is taken.
	Create(ctx context.Context, user *model.User) error

	// GetByID retrieves a user by its unique identifier.
	// Returns nil and ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByUsername retrieves a user by the lowercased username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// FindByIDs retrieves the denormalization projection of the given users
	// in a single batched query. Ids with no matching row are simply absent
	// from the result; the result order is unspecified.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)

	// Update persists changes to an existing user entity.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *model.User) error

	// Delete removes a user.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
