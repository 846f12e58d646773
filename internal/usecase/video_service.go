package usecase

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/infrastructure/metrics"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// PublishVideoInput contains the input parameters for publishing a video.
type PublishVideoInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	Duration    float64
	VideoFile   MediaUpload
	Thumbnail   MediaUpload
}

// UpdateVideoDetailsInput contains the changed video fields. Nil means the
// field is untouched.
type UpdateVideoDetailsInput struct {
	Title       *string
	Description *string
}

// ListVideosInput filters and paginates the video listing.
type ListVideosInput struct {
	OwnerID uuid.UUID // uuid.Nil means all owners
	Query   string    // title substring filter, empty means no filter
	Page    pagination.Request
}

// VideoCacheStore is the video cache surface the service writes through.
type VideoCacheStore interface {
	Put(ctx context.Context, video *model.Video) error
	Get(ctx context.Context, id uuid.UUID) (*model.Video, error)
	SetTitle(ctx context.Context, id uuid.UUID, title string) error
	SetDescription(ctx context.Context, id uuid.UUID, description string) error
	SetThumbnail(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error
	SetPublished(ctx context.Context, id uuid.UUID, published bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// VideoService defines the interface for video business logic operations.
type VideoService interface {
	// Publish uploads the video file and thumbnail and creates the video.
	Publish(ctx context.Context, input PublishVideoInput) (*model.Video, error)

	// Get retrieves a video with its owner's summary, cache first.
	// Concurrent requests for the same video are coalesced.
	Get(ctx context.Context, id uuid.UUID) (Owned[model.Video], error)

	// RegisterView bumps the store-side view counter. The cached copy is
	// allowed to lag; view counts are not a consistency guarantee.
	RegisterView(ctx context.Context, id uuid.UUID) error

	// UpdateDetails applies title and description changes with per-field
	// write-through.
	UpdateDetails(ctx context.Context, id uuid.UUID, input UpdateVideoDetailsInput) (*model.Video, error)

	// UpdateThumbnail uploads a new thumbnail, writes the field through, and
	// enqueues the old asset for cleanup.
	UpdateThumbnail(ctx context.Context, id uuid.UUID, upload MediaUpload) (*model.Video, error)

	// TogglePublish flips the published flag with write-through.
	TogglePublish(ctx context.Context, id uuid.UUID) (*model.Video, error)

	// Delete removes the video, its cache entry, and enqueues its media for
	// cleanup.
	Delete(ctx context.Context, id uuid.UUID) error

	// List retrieves one cursor page of videos with owners denormalized.
	List(ctx context.Context, input ListVideosInput) (pagination.Page[Owned[model.Video]], error)
}

type videoService struct {
	repo      repository.VideoRepository
	cache     VideoCacheStore
	media     repository.MediaStorage
	cleanup   repository.CleanupQueue
	directory repository.UserDirectory
	sfGroup   singleflight.Group
}

// NewVideoService creates a new VideoService instance.
func NewVideoService(
	repo repository.VideoRepository,
	cache VideoCacheStore,
	media repository.MediaStorage,
	cleanup repository.CleanupQueue,
	directory repository.UserDirectory,
) VideoService {
	return &videoService{
		repo:      repo,
		cache:     cache,
		media:     media,
		cleanup:   cleanup,
		directory: directory,
	}
}

func (s *videoService) Publish(ctx context.Context, input PublishVideoInput) (*model.Video, error) {
	video, err := model.NewVideo(input.OwnerID, input.Title, input.Description)
	if err != nil {
		return nil, err
	}

	fileAsset, err := s.media.Upload(ctx, input.VideoFile.Reader, input.VideoFile.Size, input.VideoFile.ContentType)
	if err != nil {
		return nil, err
	}
	video.SetVideoFile(fileAsset, input.Duration)

	thumbAsset, err := s.media.Upload(ctx, input.Thumbnail.Reader, input.Thumbnail.Size, input.Thumbnail.ContentType)
	if err != nil {
		s.enqueueCleanup(ctx, fileAsset, "publish aborted")
		return nil, err
	}
	video.SetThumbnail(thumbAsset)
	video.IsPublished = true

	if err := s.repo.Create(ctx, video); err != nil {
		s.enqueueCleanup(ctx, fileAsset, "publish aborted")
		s.enqueueCleanup(ctx, thumbAsset, "publish aborted")
		return nil, err
	}

	if err := s.cache.Put(ctx, video); err != nil {
		slog.Warn("failed to cache video after publish", "video_id", video.ID, "error", err)
	}
	return video, nil
}

// Get coalesces concurrent lookups of the same video through singleflight so
// a cache miss triggers at most one store fetch.
func (s *videoService) Get(ctx context.Context, id uuid.UUID) (Owned[model.Video], error) {
	result, err, shared := s.sfGroup.Do(id.String(), func() (any, error) {
		return s.getWithCache(ctx, id)
	})
	if shared {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightShared).Inc()
	} else {
		metrics.SingleflightRequestsTotal.WithLabelValues(metrics.SingleflightInitiated).Inc()
	}
	if err != nil {
		return Owned[model.Video]{}, err
	}

	video := result.(*model.Video)

	owners, err := s.directory.BulkFetch(ctx, []uuid.UUID{video.OwnerID})
	if err != nil {
		return Owned[model.Video]{}, err
	}
	return Owned[model.Video]{Item: video, Owner: owners[0]}, nil
}

func (s *videoService) getWithCache(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	video, err := s.cache.Get(ctx, id)
	if err != nil {
		slog.Warn("video cache read failed, falling back to store", "video_id", id, "error", err)
	}
	if video != nil {
		return video, nil
	}

	video, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, video); err != nil {
		slog.Warn("failed to cache video", "video_id", id, "error", err)
	}
	return video, nil
}

func (s *videoService) RegisterView(ctx context.Context, id uuid.UUID) error {
	return s.repo.IncrementViews(ctx, id)
}

func (s *videoService) UpdateDetails(ctx context.Context, id uuid.UUID, input UpdateVideoDetailsInput) (*model.Video, error) {
	if input.Title == nil && input.Description == nil {
		return nil, ErrNoFieldsToUpdate
	}

	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var writes []func(ctx context.Context) error
	if input.Title != nil {
		title := *input.Title
		if title == "" {
			return nil, model.ErrEmptyTitle
		}
		video.Title = title
		writes = append(writes, func(ctx context.Context) error { return s.cache.SetTitle(ctx, id, title) })
	}
	if input.Description != nil {
		description := *input.Description
		video.Description = description
		writes = append(writes, func(ctx context.Context) error { return s.cache.SetDescription(ctx, id, description) })
	}

	if err := s.repo.Update(ctx, video); err != nil {
		return nil, err
	}

	for _, write := range writes {
		if err := write(ctx); err != nil {
			slog.Warn("video write-through failed", "video_id", id, "error", err)
		}
	}
	return video, nil
}

func (s *videoService) UpdateThumbnail(ctx context.Context, id uuid.UUID, upload MediaUpload) (*model.Video, error) {
	asset, err := s.media.Upload(ctx, upload.Reader, upload.Size, upload.ContentType)
	if err != nil {
		return nil, err
	}

	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.enqueueCleanup(ctx, asset, "thumbnail update aborted")
		return nil, err
	}

	old := video.Thumbnail
	video.SetThumbnail(asset)

	if err := s.repo.Update(ctx, video); err != nil {
		s.enqueueCleanup(ctx, asset, "thumbnail update aborted")
		return nil, err
	}

	if err := s.cache.SetThumbnail(ctx, id, asset); err != nil {
		slog.Warn("thumbnail write-through failed", "video_id", id, "error", err)
	}

	s.enqueueCleanup(ctx, old, "thumbnail replaced")
	return video, nil
}

func (s *videoService) TogglePublish(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	published := video.TogglePublish()

	if err := s.repo.Update(ctx, video); err != nil {
		return nil, err
	}

	if err := s.cache.SetPublished(ctx, id, published); err != nil {
		slog.Warn("publish flag write-through failed", "video_id", id, "error", err)
	}
	return video, nil
}

func (s *videoService) Delete(ctx context.Context, id uuid.UUID) error {
	video, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		slog.Warn("failed to invalidate video cache on delete", "video_id", id, "error", err)
	}

	s.enqueueCleanup(ctx, video.VideoFile, "video deleted")
	s.enqueueCleanup(ctx, video.Thumbnail, "video deleted")
	return nil
}

func (s *videoService) List(ctx context.Context, input ListVideosInput) (pagination.Page[Owned[model.Video]], error) {
	req := input.Page.Normalize()

	batch, err := s.repo.List(ctx, input.OwnerID, input.Query, req)
	if err != nil {
		return pagination.Page[Owned[model.Video]]{}, err
	}

	page := pagination.NewPage(batch, req.Limit, func(v *model.Video) uuid.UUID { return v.ID })

	items, err := denormalizeOwners(ctx, s.directory, page.Items, func(v *model.Video) uuid.UUID { return v.OwnerID })
	if err != nil {
		return pagination.Page[Owned[model.Video]]{}, err
	}

	return pagination.Page[Owned[model.Video]]{
		Items:       items,
		NextCursor:  page.NextCursor,
		HasNextPage: page.HasNextPage,
	}, nil
}

func (s *videoService) enqueueCleanup(ctx context.Context, asset model.MediaAsset, reason string) {
	if asset.IsZero() {
		return
	}
	task := repository.CleanupTask{OpaqueID: asset.OpaqueID, Reason: reason}
	if err := s.cleanup.PublishCleanupTask(ctx, task); err != nil {
		slog.Warn("failed to enqueue media cleanup", "opaque_id", asset.OpaqueID, "error", err)
	}
}
