package model

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MediaAsset is a stored media file reference: the public URL plus the
// opaque identifier the media store needs to destroy it later.
type MediaAsset struct {
	URL      string `json:"url"`
	OpaqueID string `json:"opaque_id"`
}

// IsZero reports whether no asset is attached.
func (a MediaAsset) IsZero() bool {
	return a.URL == "" && a.OpaqueID == ""
}

// User represents a platform account.
type User struct {
	ID         uuid.UUID
	Username   string
	Email      string
	FullName   string
	Biography  string
	Avatar     MediaAsset
	CoverImage MediaAsset
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UserSummary is the denormalized projection of a user embedded into other
// entities' responses (comment owners, like authors, video owners). It is
// built only from cached or bulk-fetched fields and never carries
// credentials or tokens.
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	FullName string    `json:"full_name"`
	Avatar   string    `json:"avatar"`
}

// Summary projects the user onto its denormalized form.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Avatar:   u.Avatar.URL,
	}
}

var (
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrEmptyEmail      = errors.New("email cannot be empty")
	ErrEmptyFullName   = errors.New("full name cannot be empty")
	ErrUsernameTooLong = errors.New("username exceeds maximum length of 64 characters")
)

const maxUsernameLength = 64

// NewUser creates a new User. Usernames are stored lowercased so that
// lookups and cache keys stay case-insensitive.
func NewUser(username, email, fullName, biography string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if len(username) > maxUsernameLength {
		return nil, ErrUsernameTooLong
	}
	if strings.TrimSpace(email) == "" {
		return nil, ErrEmptyEmail
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, ErrEmptyFullName
	}

	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Username:  strings.ToLower(username),
		Email:     email,
		FullName:  fullName,
		Biography: biography,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
