package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// LikeTarget identifies what kind of entity a like is attached to.
type LikeTarget string

const (
	LikeTargetVideo   LikeTarget = "VIDEO"
	LikeTargetComment LikeTarget = "COMMENT"
)

// Like represents a user liking a video or a comment. Exactly one of the
// two target kinds applies, recorded in Target with the id in TargetID.
type Like struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Target    LikeTarget
	TargetID  uuid.UUID
	CreatedAt time.Time
}

var ErrInvalidLikeTarget = errors.New("like target ID cannot be nil")

// NewLike creates a new Like for the given target.
func NewLike(ownerID uuid.UUID, target LikeTarget, targetID uuid.UUID) (*Like, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if targetID == uuid.Nil {
		return nil, ErrInvalidLikeTarget
	}

	return &Like{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Target:    target,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}, nil
}
