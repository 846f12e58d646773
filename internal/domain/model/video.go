package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Video represents an uploaded video and its metadata.
type Video struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	VideoFile   MediaAsset
	Thumbnail   MediaAsset
	Duration    float64
	Views       int64
	IsPublished bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

var (
	ErrEmptyTitle     = errors.New("title cannot be empty")
	ErrInvalidOwnerID = errors.New("owner ID cannot be nil")
	ErrTitleTooLong   = errors.New("title exceeds maximum length of 255 characters")
)

const maxTitleLength = 255

// NewVideo creates a new unpublished Video.
func NewVideo(ownerID uuid.UUID, title, description string) (*Video, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if len(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}

	now := time.Now()
	return &Video{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TogglePublish flips the published flag and returns the new value.
func (v *Video) TogglePublish() bool {
	v.IsPublished = !v.IsPublished
	v.UpdatedAt = time.Now()
	return v.IsPublished
}

// SetVideoFile attaches the uploaded media file.
func (v *Video) SetVideoFile(asset MediaAsset, duration float64) {
	v.VideoFile = asset
	v.Duration = duration
	v.UpdatedAt = time.Now()
}

// SetThumbnail attaches the thumbnail image.
func (v *Video) SetThumbnail(asset MediaAsset) {
	v.Thumbnail = asset
	v.UpdatedAt = time.Now()
}
