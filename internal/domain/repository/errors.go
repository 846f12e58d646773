package repository

import "errors"

var (
	// ErrUserNotFound is returned when a user cannot be found.
	ErrUserNotFound = errors.New("user not found")

	// ErrVideoNotFound is returned when a video cannot be found.
	ErrVideoNotFound = errors.New("video not found")

	// ErrCommentNotFound is returned when a comment cannot be found.
	ErrCommentNotFound = errors.New("comment not found")

	// ErrDuplicateUser is returned when a username or email is already taken.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrDuplicateVideo is returned when attempting to create a video that already exists.
	ErrDuplicateVideo = errors.New("video already exists")

	// ErrInvalidSortField is returned when a listing requests a sort field
	// the repository does not expose.
	ErrInvalidSortField = errors.New("invalid sort field")

	// ErrInvalidCursor is returned when a listing cursor no longer points at
	// an existing row. The caller should restart the walk from the beginning.
	ErrInvalidCursor = errors.New("invalid cursor")
)
