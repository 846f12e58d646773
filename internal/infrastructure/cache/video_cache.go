package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
)

// Fixed field set of a cached video hash entry.
const (
	videoFieldID          = "id"
	videoFieldOwnerID     = "owner_id"
	videoFieldTitle       = "title"
	videoFieldDescription = "description"
	videoFieldVideoFile   = "video_file"
	videoFieldThumbnail   = "thumbnail"
	videoFieldDuration    = "duration"
	videoFieldViews       = "views"
	videoFieldIsPublished = "is_published"
	videoFieldCreatedAt   = "created_at"
	videoFieldUpdatedAt   = "updated_at"
)

// VideoCache stores video projections as hash entries keyed video:<id>.
type VideoCache struct {
	hashes *Hashes
}

// NewVideoCache creates a video cache over the given hash adapter.
func NewVideoCache(hashes *Hashes) *VideoCache {
	return &VideoCache{hashes: hashes}
}

func videoFields(v *model.Video) map[string]any {
	return map[string]any{
		videoFieldID:          v.ID.String(),
		videoFieldOwnerID:     v.OwnerID.String(),
		videoFieldTitle:       v.Title,
		videoFieldDescription: v.Description,
		videoFieldVideoFile:   v.VideoFile,
		videoFieldThumbnail:   v.Thumbnail,
		videoFieldDuration:    v.Duration,
		videoFieldViews:       v.Views,
		videoFieldIsPublished: v.IsPublished,
		videoFieldCreatedAt:   v.CreatedAt.Format(time.RFC3339Nano),
		videoFieldUpdatedAt:   v.UpdatedAt.Format(time.RFC3339Nano),
	}
}

// Put writes the full field set of one video.
func (c *VideoCache) Put(ctx context.Context, video *model.Video) error {
	return c.hashes.SetFields(ctx, VideoKey(video.ID), videoFields(video))
}

// Get retrieves one cached video. Returns nil, nil on a miss.
func (c *VideoCache) Get(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	key := VideoKey(id)
	entry, err := c.hashes.GetAll(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return decodeVideo(key, entry), nil
}

// SetTitle upserts the title field.
func (c *VideoCache) SetTitle(ctx context.Context, id uuid.UUID, title string) error {
	return c.hashes.SetField(ctx, VideoKey(id), videoFieldTitle, title)
}

// SetDescription upserts the description field.
func (c *VideoCache) SetDescription(ctx context.Context, id uuid.UUID, description string) error {
	return c.hashes.SetField(ctx, VideoKey(id), videoFieldDescription, description)
}

// SetThumbnail upserts the thumbnail field.
func (c *VideoCache) SetThumbnail(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error {
	return c.hashes.SetField(ctx, VideoKey(id), videoFieldThumbnail, asset)
}

// SetPublished upserts the published flag.
func (c *VideoCache) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	return c.hashes.SetField(ctx, VideoKey(id), videoFieldIsPublished, published)
}

// Delete invalidates the whole entry.
func (c *VideoCache) Delete(ctx context.Context, id uuid.UUID) error {
	return c.hashes.DeleteKey(ctx, VideoKey(id))
}

// decodeVideo rebuilds a video from a filtered hash entry. The id, owner
// and title fields are required; an entry without them is a miss.
func decodeVideo(key string, entry map[string]json.RawMessage) *model.Video {
	var rawID, rawOwnerID string
	if !decodeField(key, entry, videoFieldID, &rawID) {
		return nil
	}
	if !decodeField(key, entry, videoFieldOwnerID, &rawOwnerID) {
		return nil
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		slog.Warn("cached video has malformed id, treating as miss", "key", key)
		return nil
	}
	ownerID, err := uuid.Parse(rawOwnerID)
	if err != nil {
		slog.Warn("cached video has malformed owner id, treating as miss", "key", key)
		return nil
	}

	v := model.Video{ID: id, OwnerID: ownerID}
	if !decodeField(key, entry, videoFieldTitle, &v.Title) {
		return nil
	}
	decodeField(key, entry, videoFieldDescription, &v.Description)
	decodeField(key, entry, videoFieldVideoFile, &v.VideoFile)
	decodeField(key, entry, videoFieldThumbnail, &v.Thumbnail)
	decodeField(key, entry, videoFieldDuration, &v.Duration)
	decodeField(key, entry, videoFieldViews, &v.Views)
	decodeField(key, entry, videoFieldIsPublished, &v.IsPublished)

	var rawCreated, rawUpdated string
	if decodeField(key, entry, videoFieldCreatedAt, &rawCreated) {
		if t, err := time.Parse(time.RFC3339Nano, rawCreated); err == nil {
			v.CreatedAt = t
		}
	}
	if decodeField(key, entry, videoFieldUpdatedAt, &rawUpdated) {
		if t, err := time.Parse(time.RFC3339Nano, rawUpdated); err == nil {
			v.UpdatedAt = t
		}
	}

	return &v
}
