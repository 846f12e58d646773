package usecase

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// mockUserRepository provides a configurable mock for UserRepository.
type mockUserRepository struct {
	createFn        func(ctx context.Context, user *model.User) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	findByIDsFn     func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	updateFn        func(ctx context.Context, user *model.User) error
	deleteFn        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.getByUsernameFn != nil {
		return m.getByUsernameFn(ctx, username)
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	if m.findByIDsFn != nil {
		return m.findByIDsFn(ctx, ids)
	}
	return nil, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, user)
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockUserCache provides a configurable mock for UserCacheStore.
type mockUserCache struct {
	putFn          func(ctx context.Context, user *model.User) error
	putBatchFn     func(ctx context.Context, users []*model.User) error
	getFn          func(ctx context.Context, id uuid.UUID) (*model.User, error)
	getBatchFn     func(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
	setUsernameFn  func(ctx context.Context, id uuid.UUID, username string) error
	setFullNameFn  func(ctx context.Context, id uuid.UUID, fullName string) error
	setEmailFn     func(ctx context.Context, id uuid.UUID, email string) error
	setBiographyFn func(ctx context.Context, id uuid.UUID, biography string) error
	setAvatarFn    func(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error
	setCoverFn     func(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error
	deleteFn       func(ctx context.Context, id uuid.UUID) error
}

func (m *mockUserCache) Put(ctx context.Context, user *model.User) error {
	if m.putFn != nil {
		return m.putFn(ctx, user)
	}
	return nil
}

func (m *mockUserCache) PutBatch(ctx context.Context, users []*model.User) error {
	if m.putBatchFn != nil {
		return m.putBatchFn(ctx, users)
	}
	return nil
}

func (m *mockUserCache) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserCache) GetBatch(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	if m.getBatchFn != nil {
		return m.getBatchFn(ctx, ids)
	}
	return make([]*model.User, len(ids)), nil
}

func (m *mockUserCache) SetUsername(ctx context.Context, id uuid.UUID, username string) error {
	if m.setUsernameFn != nil {
		return m.setUsernameFn(ctx, id, username)
	}
	return nil
}

func (m *mockUserCache) SetFullName(ctx context.Context, id uuid.UUID, fullName string) error {
	if m.setFullNameFn != nil {
		return m.setFullNameFn(ctx, id, fullName)
	}
	return nil
}

func (m *mockUserCache) SetEmail(ctx context.Context, id uuid.UUID, email string) error {
	if m.setEmailFn != nil {
		return m.setEmailFn(ctx, id, email)
	}
	return nil
}

func (m *mockUserCache) SetBiography(ctx context.Context, id uuid.UUID, biography string) error {
	if m.setBiographyFn != nil {
		return m.setBiographyFn(ctx, id, biography)
	}
	return nil
}

func (m *mockUserCache) SetAvatar(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error {
	if m.setAvatarFn != nil {
		return m.setAvatarFn(ctx, id, asset)
	}
	return nil
}

func (m *mockUserCache) SetCoverImage(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error {
	if m.setCoverFn != nil {
		return m.setCoverFn(ctx, id, asset)
	}
	return nil
}

func (m *mockUserCache) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockUsernameIndex provides a configurable mock for UsernameIndex.
// The zero value misses on every lookup.
type mockUsernameIndex struct {
	getFn    func(ctx context.Context, username string) (uuid.UUID, bool, error)
	setFn    func(ctx context.Context, username string, id uuid.UUID) error
	deleteFn func(ctx context.Context, username string) error
}

func (m *mockUsernameIndex) Get(ctx context.Context, username string) (uuid.UUID, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, username)
	}
	return uuid.Nil, false, nil
}

func (m *mockUsernameIndex) Set(ctx context.Context, username string, id uuid.UUID) error {
	if m.setFn != nil {
		return m.setFn(ctx, username, id)
	}
	return nil
}

func (m *mockUsernameIndex) Delete(ctx context.Context, username string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, username)
	}
	return nil
}

// mockVideoRepository provides a configurable mock for VideoRepository.
type mockVideoRepository struct {
	createFn         func(ctx context.Context, video *model.Video) error
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*model.Video, error)
	listFn           func(ctx context.Context, ownerID uuid.UUID, titleQuery string, req pagination.Request) ([]*model.Video, error)
	updateFn         func(ctx context.Context, video *model.Video) error
	incrementViewsFn func(ctx context.Context, id uuid.UUID) error
	deleteFn         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVideoRepository) Create(ctx context.Context, video *model.Video) error {
	if m.createFn != nil {
		return m.createFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrVideoNotFound
}

func (m *mockVideoRepository) List(ctx context.Context, ownerID uuid.UUID, titleQuery string, req pagination.Request) ([]*model.Video, error) {
	if m.listFn != nil {
		return m.listFn(ctx, ownerID, titleQuery, req)
	}
	return nil, nil
}

func (m *mockVideoRepository) Update(ctx context.Context, video *model.Video) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, video)
	}
	return nil
}

func (m *mockVideoRepository) IncrementViews(ctx context.Context, id uuid.UUID) error {
	if m.incrementViewsFn != nil {
		return m.incrementViewsFn(ctx, id)
	}
	return nil
}

func (m *mockVideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockVideoCache provides a configurable mock for VideoCacheStore.
type mockVideoCache struct {
	putFn            func(ctx context.Context, video *model.Video) error
	getFn            func(ctx context.Context, id uuid.UUID) (*model.Video, error)
	setTitleFn       func(ctx context.Context, id uuid.UUID, title string) error
	setDescriptionFn func(ctx context.Context, id uuid.UUID, description string) error
	setThumbnailFn   func(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error
	setPublishedFn   func(ctx context.Context, id uuid.UUID, published bool) error
	deleteFn         func(ctx context.Context, id uuid.UUID) error
}

func (m *mockVideoCache) Put(ctx context.Context, video *model.Video) error {
	if m.putFn != nil {
		return m.putFn(ctx, video)
	}
	return nil
}

func (m *mockVideoCache) Get(ctx context.Context, id uuid.UUID) (*model.Video, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockVideoCache) SetTitle(ctx context.Context, id uuid.UUID, title string) error {
	if m.setTitleFn != nil {
		return m.setTitleFn(ctx, id, title)
	}
	return nil
}

func (m *mockVideoCache) SetDescription(ctx context.Context, id uuid.UUID, description string) error {
	if m.setDescriptionFn != nil {
		return m.setDescriptionFn(ctx, id, description)
	}
	return nil
}

func (m *mockVideoCache) SetThumbnail(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error {
	if m.setThumbnailFn != nil {
		return m.setThumbnailFn(ctx, id, asset)
	}
	return nil
}

func (m *mockVideoCache) SetPublished(ctx context.Context, id uuid.UUID, published bool) error {
	if m.setPublishedFn != nil {
		return m.setPublishedFn(ctx, id, published)
	}
	return nil
}

func (m *mockVideoCache) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockCommentRepository provides a configurable mock for CommentRepository.
type mockCommentRepository struct {
	createFn        func(ctx context.Context, comment *model.Comment) error
	getByIDFn       func(ctx context.Context, id uuid.UUID) (*model.Comment, error)
	listByVideoFn   func(ctx context.Context, videoID uuid.UUID, req pagination.Request) ([]*model.Comment, error)
	updateContentFn func(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error)
	deleteFn        func(ctx context.Context, id uuid.UUID) error
}

func (m *mockCommentRepository) Create(ctx context.Context, comment *model.Comment) error {
	if m.createFn != nil {
		return m.createFn(ctx, comment)
	}
	return nil
}

func (m *mockCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Comment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, repository.ErrCommentNotFound
}

func (m *mockCommentRepository) ListByVideo(ctx context.Context, videoID uuid.UUID, req pagination.Request) ([]*model.Comment, error) {
	if m.listByVideoFn != nil {
		return m.listByVideoFn(ctx, videoID, req)
	}
	return nil, nil
}

func (m *mockCommentRepository) UpdateContent(ctx context.Context, id uuid.UUID, content string) (*model.Comment, error) {
	if m.updateContentFn != nil {
		return m.updateContentFn(ctx, id, content)
	}
	return nil, repository.ErrCommentNotFound
}

func (m *mockCommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockLikeRepository provides a configurable mock for LikeRepository.
type mockLikeRepository struct {
	createFn              func(ctx context.Context, like *model.Like) error
	getByOwnerAndTargetFn func(ctx context.Context, ownerID uuid.UUID, target model.LikeTarget, targetID uuid.UUID) (*model.Like, error)
	listByTargetFn        func(ctx context.Context, target model.LikeTarget, targetID uuid.UUID, req pagination.Request) ([]*model.Like, error)
	deleteFn              func(ctx context.Context, id uuid.UUID) error
}

func (m *mockLikeRepository) Create(ctx context.Context, like *model.Like) error {
	if m.createFn != nil {
		return m.createFn(ctx, like)
	}
	return nil
}

func (m *mockLikeRepository) GetByOwnerAndTarget(ctx context.Context, ownerID uuid.UUID, target model.LikeTarget, targetID uuid.UUID) (*model.Like, error) {
	if m.getByOwnerAndTargetFn != nil {
		return m.getByOwnerAndTargetFn(ctx, ownerID, target, targetID)
	}
	return nil, nil
}

func (m *mockLikeRepository) ListByTarget(ctx context.Context, target model.LikeTarget, targetID uuid.UUID, req pagination.Request) ([]*model.Like, error) {
	if m.listByTargetFn != nil {
		return m.listByTargetFn(ctx, target, targetID, req)
	}
	return nil, nil
}

func (m *mockLikeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockSubscriptionRepository provides a configurable mock for SubscriptionRepository.
type mockSubscriptionRepository struct {
	createFn                    func(ctx context.Context, sub *model.Subscription) error
	getBySubscriberAndChannelFn func(ctx context.Context, subscriberID, channelID uuid.UUID) (*model.Subscription, error)
	listByChannelFn             func(ctx context.Context, channelID uuid.UUID, req pagination.Request) ([]*model.Subscription, error)
	listBySubscriberFn          func(ctx context.Context, subscriberID uuid.UUID, req pagination.Request) ([]*model.Subscription, error)
	deleteFn                    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockSubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	if m.createFn != nil {
		return m.createFn(ctx, sub)
	}
	return nil
}

func (m *mockSubscriptionRepository) GetBySubscriberAndChannel(ctx context.Context, subscriberID, channelID uuid.UUID) (*model.Subscription, error) {
	if m.getBySubscriberAndChannelFn != nil {
		return m.getBySubscriberAndChannelFn(ctx, subscriberID, channelID)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) ListByChannel(ctx context.Context, channelID uuid.UUID, req pagination.Request) ([]*model.Subscription, error) {
	if m.listByChannelFn != nil {
		return m.listByChannelFn(ctx, channelID, req)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberID uuid.UUID, req pagination.Request) ([]*model.Subscription, error) {
	if m.listBySubscriberFn != nil {
		return m.listBySubscriberFn(ctx, subscriberID, req)
	}
	return nil, nil
}

func (m *mockSubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// mockMediaStorage provides a configurable mock for MediaStorage.
type mockMediaStorage struct {
	uploadFn  func(ctx context.Context, reader io.Reader, size int64, contentType string) (model.MediaAsset, error)
	destroyFn func(ctx context.Context, opaqueID string) error
}

func (m *mockMediaStorage) Upload(ctx context.Context, reader io.Reader, size int64, contentType string) (model.MediaAsset, error) {
	if m.uploadFn != nil {
		return m.uploadFn(ctx, reader, size, contentType)
	}
	return model.MediaAsset{URL: "http://example.com/media/test", OpaqueID: "media/test"}, nil
}

func (m *mockMediaStorage) Destroy(ctx context.Context, opaqueID string) error {
	if m.destroyFn != nil {
		return m.destroyFn(ctx, opaqueID)
	}
	return nil
}

// mockCleanupQueue provides a configurable mock for CleanupQueue.
type mockCleanupQueue struct {
	publishFn func(ctx context.Context, task repository.CleanupTask) error
	consumeFn func(ctx context.Context, handler func(task repository.CleanupTask) error) error
	closeFn   func() error
}

func (m *mockCleanupQueue) PublishCleanupTask(ctx context.Context, task repository.CleanupTask) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, task)
	}
	return nil
}

func (m *mockCleanupQueue) ConsumeCleanupTasks(ctx context.Context, handler func(task repository.CleanupTask) error) error {
	if m.consumeFn != nil {
		return m.consumeFn(ctx, handler)
	}
	return nil
}

func (m *mockCleanupQueue) Close() error {
	if m.closeFn != nil {
		return m.closeFn()
	}
	return nil
}

// mockUserDirectory provides a configurable mock for UserDirectory.
type mockUserDirectory struct {
	bulkFetchFn func(ctx context.Context, ids []uuid.UUID) ([]*model.UserSummary, error)
}

func (m *mockUserDirectory) BulkFetch(ctx context.Context, ids []uuid.UUID) ([]*model.UserSummary, error) {
	if m.bulkFetchFn != nil {
		return m.bulkFetchFn(ctx, ids)
	}
	return make([]*model.UserSummary, len(ids)), nil
}
