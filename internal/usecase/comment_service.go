package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// ErrNotCommentOwner is returned when a caller mutates someone else's comment.
var ErrNotCommentOwner = errors.New("comment belongs to another user")

// CommentService defines the interface for comment operations. Comments are
// not cached wholesale; only their owners go through the user cache, via the
// directory.
type CommentService interface {
	// Add creates a comment on a video.
	Add(ctx context.Context, videoID, ownerID uuid.UUID, content string) (*model.Comment, error)

	// Update replaces a comment's content. Only the owner may update.
	Update(ctx context.Context, id, callerID uuid.UUID, content string) (*model.Comment, error)

	// Delete removes a comment. Only the owner may delete.
	Delete(ctx context.Context, id, callerID uuid.UUID) error

	// Get retrieves a comment with its owner's summary.
	Get(ctx context.Context, id uuid.UUID) (Owned[model.Comment], error)

	// ListByVideo retrieves one cursor page of a video's comments with
	// owners denormalized.
	ListByVideo(ctx context.Context, videoID uuid.UUID, req pagination.Request) (pagination.Page[Owned[model.Comment]], error)
}

type commentService struct {
	repo      repository.CommentRepository
	videos    repository.VideoRepository
	directory repository.UserDirectory
}

// NewCommentService creates a new CommentService instance.
func NewCommentService(
	repo repository.CommentRepository,
	videos repository.VideoRepository,
	directory repository.UserDirectory,
) CommentService {
	return &commentService{
		repo:      repo,
		videos:    videos,
		directory: directory,
	}
}

func (s *commentService) Add(ctx context.Context, videoID, ownerID uuid.UUID, content string) (*model.Comment, error) {
	// The video must exist; a comment on a deleted video is rejected, not
	// orphaned.
	if _, err := s.videos.GetByID(ctx, videoID); err != nil {
		return nil, err
	}

	comment, err := model.NewComment(videoID, ownerID, content)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, id, callerID uuid.UUID, content string) (*model.Comment, error) {
	if content == "" {
		return nil, model.ErrEmptyContent
	}

	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.OwnerID != callerID {
		return nil, ErrNotCommentOwner
	}

	return s.repo.UpdateContent(ctx, id, content)
}

func (s *commentService) Delete(ctx context.Context, id, callerID uuid.UUID) error {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if comment.OwnerID != callerID {
		return ErrNotCommentOwner
	}

	return s.repo.Delete(ctx, id)
}

func (s *commentService) Get(ctx context.Context, id uuid.UUID) (Owned[model.Comment], error) {
	comment, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Owned[model.Comment]{}, err
	}

	owners, err := s.directory.BulkFetch(ctx, []uuid.UUID{comment.OwnerID})
	if err != nil {
		return Owned[model.Comment]{}, err
	}
	return Owned[model.Comment]{Item: comment, Owner: owners[0]}, nil
}

func (s *commentService) ListByVideo(ctx context.Context, videoID uuid.UUID, req pagination.Request) (pagination.Page[Owned[model.Comment]], error) {
	req = req.Normalize()

	batch, err := s.repo.ListByVideo(ctx, videoID, req)
	if err != nil {
		return pagination.Page[Owned[model.Comment]]{}, err
	}

	page := pagination.NewPage(batch, req.Limit, func(c *model.Comment) uuid.UUID { return c.ID })

	items, err := denormalizeOwners(ctx, s.directory, page.Items, func(c *model.Comment) uuid.UUID { return c.OwnerID })
	if err != nil {
		return pagination.Page[Owned[model.Comment]]{}, err
	}

	return pagination.Page[Owned[model.Comment]]{
		Items:       items,
		NextCursor:  page.NextCursor,
		HasNextPage: page.HasNextPage,
	}, nil
}
