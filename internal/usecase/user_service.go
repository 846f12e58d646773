package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
)

// ErrNoFieldsToUpdate is returned when a profile update carries no changes.
var ErrNoFieldsToUpdate = errors.New("no fields to update")

// MediaUpload is a file stream handed to the media store.
type MediaUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// RegisterInput contains the input parameters for registering a user.
type RegisterInput struct {
	Username   string
	Email      string
	FullName   string
	Biography  string
	Avatar     *MediaUpload
	CoverImage *MediaUpload
}

// UpdateProfileInput contains the changed profile fields. Nil means the
// field is untouched.
type UpdateProfileInput struct {
	Username  *string
	Email     *string
	FullName  *string
	Biography *string
}

// UserCacheStore is the user cache surface the service writes through.
type UserCacheStore interface {
	Put(ctx context.Context, user *model.User) error
	PutBatch(ctx context.Context, users []*model.User) error
	Get(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetBatch(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	SetUsername(ctx context.Context, id uuid.UUID, username string) error
	SetFullName(ctx context.Context, id uuid.UUID, fullName string) error
	SetEmail(ctx context.Context, id uuid.UUID, email string) error
	SetBiography(ctx context.Context, id uuid.UUID, biography string) error
	SetAvatar(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error
	SetCoverImage(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UsernameIndex maps lowercased usernames to user IDs so profile lookups by
// name can go through the ID-keyed cache.
type UsernameIndex interface {
	Get(ctx context.Context, username string) (uuid.UUID, bool, error)
	Set(ctx context.Context, username string, id uuid.UUID) error
	Delete(ctx context.Context, username string) error
}

// UserService defines the interface for user account operations.
type UserService interface {
	// Register creates an account, uploading avatar and cover image when
	// provided.
	Register(ctx context.Context, input RegisterInput) (*model.User, error)

	// GetCurrent retrieves a user by ID, cache first.
	GetCurrent(ctx context.Context, id uuid.UUID) (*model.User, error)

	// GetByUsername retrieves a user by the lowercased username, resolving
	// the name through the username index so hits still read the ID-keyed
	// cache.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// UpdateProfile applies the changed fields and writes each one through
	// to the cache.
	UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*model.User, error)

	// UpdateAvatar uploads a new avatar, writes the field through, and
	// enqueues the old asset for cleanup.
	UpdateAvatar(ctx context.Context, id uuid.UUID, upload MediaUpload) (*model.User, error)

	// RemoveAvatar clears the avatar and enqueues the old asset for cleanup.
	RemoveAvatar(ctx context.Context, id uuid.UUID) (*model.User, error)

	// UpdateCoverImage uploads a new cover image, writes the field through,
	// and enqueues the old asset for cleanup.
	UpdateCoverImage(ctx context.Context, id uuid.UUID, upload MediaUpload) (*model.User, error)

	// RemoveCoverImage clears the cover image and enqueues the old asset for
	// cleanup.
	RemoveCoverImage(ctx context.Context, id uuid.UUID) (*model.User, error)

	// BulkFetch resolves public summaries for the given IDs, aligned with
	// the input, nil per missing user. Backs POST /v1/users/bulk and the
	// in-process user directory.
	BulkFetch(ctx context.Context, ids []uuid.UUID) ([]*model.UserSummary, error)

	// DropCache removes the user's cache entry. Used on logout so a stale
	// session cannot read cached profile data.
	DropCache(ctx context.Context, id uuid.UUID) error

	// Delete removes the account, its cache entry, and enqueues its media
	// assets for cleanup.
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo     repository.UserRepository
	cache    UserCacheStore
	names    UsernameIndex
	media    repository.MediaStorage
	cleanup  repository.CleanupQueue
	resolver *BulkResolver[model.User]
}

// NewUserService creates a new UserService instance.
func NewUserService(
	repo repository.UserRepository,
	cache UserCacheStore,
	names UsernameIndex,
	media repository.MediaStorage,
	cleanup repository.CleanupQueue,
) UserService {
	return &userService{
		repo:     repo,
		cache:    cache,
		names:    names,
		media:    media,
		cleanup:  cleanup,
		resolver: NewBulkResolver[model.User]("user", cache, repo, func(u *model.User) uuid.UUID { return u.ID }),
	}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	user, err := model.NewUser(input.Username, input.Email, input.FullName, input.Biography)
	if err != nil {
		return nil, err
	}

	var uploaded []model.MediaAsset
	if input.Avatar != nil {
		asset, err := s.media.Upload(ctx, input.Avatar.Reader, input.Avatar.Size, input.Avatar.ContentType)
		if err != nil {
			return nil, err
		}
		user.Avatar = asset
		uploaded = append(uploaded, asset)
	}
	if input.CoverImage != nil {
		asset, err := s.media.Upload(ctx, input.CoverImage.Reader, input.CoverImage.Size, input.CoverImage.ContentType)
		if err != nil {
			s.enqueueCleanup(ctx, uploaded, "registration aborted")
			return nil, err
		}
		user.CoverImage = asset
		uploaded = append(uploaded, asset)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.enqueueCleanup(ctx, uploaded, "registration aborted")
		return nil, err
	}

	if err := s.cache.Put(ctx, user); err != nil {
		slog.Warn("failed to cache user after registration", "user_id", user.ID, "error", err)
	}
	if err := s.names.Set(ctx, user.Username, user.ID); err != nil {
		slog.Warn("failed to index username", "username", user.Username, "error", err)
	}
	return user, nil
}

func (s *userService) GetCurrent(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.cache.Get(ctx, id)
	if err != nil {
		slog.Warn("user cache read failed, falling back to store", "user_id", id, "error", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, user); err != nil {
		slog.Warn("failed to cache user", "user_id", id, "error", err)
	}
	return user, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))

	id, found, err := s.names.Get(ctx, username)
	if err != nil {
		slog.Warn("username index read failed, falling back to store", "username", username, "error", err)
	}
	if found {
		user, err := s.GetCurrent(ctx, id)
		if err == nil && user.Username == username {
			return user, nil
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		// Stale mapping, the account behind it is gone or renamed.
		if err := s.names.Delete(ctx, username); err != nil {
			slog.Warn("failed to drop stale username index entry", "username", username, "error", err)
		}
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if err := s.names.Set(ctx, username, user.ID); err != nil {
		slog.Warn("failed to index username", "username", username, "error", err)
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, input UpdateProfileInput) (*model.User, error) {
	if input.Username == nil && input.Email == nil && input.FullName == nil && input.Biography == nil {
		return nil, ErrNoFieldsToUpdate
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Write-through closures for the fields that actually changed.
	var writes []func(ctx context.Context) error
	if input.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*input.Username))
		if username == "" {
			return nil, model.ErrEmptyUsername
		}
		oldUsername := user.Username
		user.Username = username
		writes = append(writes, func(ctx context.Context) error { return s.cache.SetUsername(ctx, id, username) })
		writes = append(writes, func(ctx context.Context) error {
			if oldUsername != username {
				if err := s.names.Delete(ctx, oldUsername); err != nil {
					return err
				}
			}
			return s.names.Set(ctx, username, id)
		})
	}
	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		if email == "" {
			return nil, model.ErrEmptyEmail
		}
		user.Email = email
		writes = append(writes, func(ctx context.Context) error { return s.cache.SetEmail(ctx, id, email) })
	}
	if input.FullName != nil {
		fullName := strings.TrimSpace(*input.FullName)
		if fullName == "" {
			return nil, model.ErrEmptyFullName
		}
		user.FullName = fullName
		writes = append(writes, func(ctx context.Context) error { return s.cache.SetFullName(ctx, id, fullName) })
	}
	if input.Biography != nil {
		biography := *input.Biography
		user.Biography = biography
		writes = append(writes, func(ctx context.Context) error { return s.cache.SetBiography(ctx, id, biography) })
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	for _, write := range writes {
		if err := write(ctx); err != nil {
			slog.Warn("profile write-through failed", "user_id", id, "error", err)
		}
	}
	return user, nil
}

func (s *userService) UpdateAvatar(ctx context.Context, id uuid.UUID, upload MediaUpload) (*model.User, error) {
	return s.replaceAsset(ctx, id, &upload,
		func(u *model.User) *model.MediaAsset { return &u.Avatar },
		s.cache.SetAvatar, "avatar replaced")
}

func (s *userService) RemoveAvatar(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.replaceAsset(ctx, id, nil,
		func(u *model.User) *model.MediaAsset { return &u.Avatar },
		s.cache.SetAvatar, "avatar removed")
}

func (s *userService) UpdateCoverImage(ctx context.Context, id uuid.UUID, upload MediaUpload) (*model.User, error) {
	return s.replaceAsset(ctx, id, &upload,
		func(u *model.User) *model.MediaAsset { return &u.CoverImage },
		s.cache.SetCoverImage, "cover image replaced")
}

func (s *userService) RemoveCoverImage(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.replaceAsset(ctx, id, nil,
		func(u *model.User) *model.MediaAsset { return &u.CoverImage },
		s.cache.SetCoverImage, "cover image removed")
}

// replaceAsset swaps one media field: upload the new asset (nil upload means
// clear), persist, write the field through, and enqueue the old asset for
// async destruction.
func (s *userService) replaceAsset(
	ctx context.Context,
	id uuid.UUID,
	upload *MediaUpload,
	field func(*model.User) *model.MediaAsset,
	writeThrough func(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error,
	reason string,
) (*model.User, error) {
	var asset model.MediaAsset
	if upload != nil {
		var err error
		asset, err = s.media.Upload(ctx, upload.Reader, upload.Size, upload.ContentType)
		if err != nil {
			return nil, err
		}
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.enqueueCleanup(ctx, []model.MediaAsset{asset}, reason+" aborted")
		return nil, err
	}

	old := *field(user)
	*field(user) = asset

	if err := s.repo.Update(ctx, user); err != nil {
		s.enqueueCleanup(ctx, []model.MediaAsset{asset}, reason+" aborted")
		return nil, err
	}

	if err := writeThrough(ctx, id, asset); err != nil {
		slog.Warn("asset write-through failed", "user_id", id, "error", err)
	}

	s.enqueueCleanup(ctx, []model.MediaAsset{old}, reason)
	return user, nil
}

func (s *userService) BulkFetch(ctx context.Context, ids []uuid.UUID) ([]*model.UserSummary, error) {
	_, resolved, err := s.resolver.Resolve(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.UserSummary, len(ids))
	for i, id := range ids {
		if user, ok := resolved[id]; ok {
			summary := user.Summary()
			summaries[i] = &summary
		}
	}
	return summaries, nil
}

func (s *userService) DropCache(ctx context.Context, id uuid.UUID) error {
	return s.cache.Delete(ctx, id)
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.Delete(ctx, id); err != nil {
		slog.Warn("failed to invalidate user cache on delete", "user_id", id, "error", err)
	}
	if err := s.names.Delete(ctx, user.Username); err != nil {
		slog.Warn("failed to drop username index entry on delete", "username", user.Username, "error", err)
	}

	s.enqueueCleanup(ctx, []model.MediaAsset{user.Avatar, user.CoverImage}, "account deleted")
	return nil
}

// enqueueCleanup publishes cleanup tasks for the given assets. Failure is
// logged only; orphaned media is preferable to a failed request.
func (s *userService) enqueueCleanup(ctx context.Context, assets []model.MediaAsset, reason string) {
	for _, asset := range assets {
		if asset.IsZero() {
			continue
		}
		task := repository.CleanupTask{OpaqueID: asset.OpaqueID, Reason: reason}
		if err := s.cleanup.PublishCleanupTask(ctx, task); err != nil {
			slog.Warn("failed to enqueue media cleanup", "opaque_id", asset.OpaqueID, "error", err)
		}
	}
}
