package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// LikeService defines the interface for like operations.
type LikeService interface {
	// ToggleVideoLike creates or removes the caller's like on a video.
	// Returns true when the video is liked after the call.
	ToggleVideoLike(ctx context.Context, ownerID, videoID uuid.UUID) (bool, error)

	// ToggleCommentLike creates or removes the caller's like on a comment.
	// Returns true when the comment is liked after the call.
	ToggleCommentLike(ctx context.Context, ownerID, commentID uuid.UUID) (bool, error)

	// ListByVideo retrieves one cursor page of a video's likes with authors
	// denormalized.
	ListByVideo(ctx context.Context, videoID uuid.UUID, req pagination.Request) (pagination.Page[Owned[model.Like]], error)
}

type likeService struct {
	repo      repository.LikeRepository
	videos    repository.VideoRepository
	comments  repository.CommentRepository
	directory repository.UserDirectory
}

// NewLikeService creates a new LikeService instance.
func NewLikeService(
	repo repository.LikeRepository,
	videos repository.VideoRepository,
	comments repository.CommentRepository,
	directory repository.UserDirectory,
) LikeService {
	return &likeService{
		repo:      repo,
		videos:    videos,
		comments:  comments,
		directory: directory,
	}
}

func (s *likeService) ToggleVideoLike(ctx context.Context, ownerID, videoID uuid.UUID) (bool, error) {
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return false, err
	}
	return s.toggle(ctx, ownerID, model.LikeTargetVideo, videoID)
}

func (s *likeService) ToggleCommentLike(ctx context.Context, ownerID, commentID uuid.UUID) (bool, error) {
	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return false, err
	}
	return s.toggle(ctx, ownerID, model.LikeTargetComment, commentID)
}

func (s *likeService) toggle(ctx context.Context, ownerID uuid.UUID, target model.LikeTarget, targetID uuid.UUID) (bool, error) {
	existing, err := s.repo.GetByOwnerAndTarget(ctx, ownerID, target, targetID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	like, err := model.NewLike(ownerID, target, targetID)
	if err != nil {
		return false, err
	}
	if err := s.repo.Create(ctx, like); err != nil {
		return false, err
	}
	return true, nil
}

func (s *likeService) ListByVideo(ctx context.Context, videoID uuid.UUID, req pagination.Request) (pagination.Page[Owned[model.Like]], error) {
	req = req.Normalize()

	batch, err := s.repo.ListByTarget(ctx, model.LikeTargetVideo, videoID, req)
	if err != nil {
		return pagination.Page[Owned[model.Like]]{}, err
	}

	page := pagination.NewPage(batch, req.Limit, func(l *model.Like) uuid.UUID { return l.ID })

	items, err := denormalizeOwners(ctx, s.directory, page.Items, func(l *model.Like) uuid.UUID { return l.OwnerID })
	if err != nil {
		return pagination.Page[Owned[model.Like]]{}, err
	}

	return pagination.Page[Owned[model.Like]]{
		Items:       items,
		NextCursor:  page.NextCursor,
		HasNextPage: page.HasNextPage,
	}, nil
}
