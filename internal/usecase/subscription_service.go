package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// SubscriptionService defines the interface for channel subscription
// operations. Channels are users; both listings resolve the counterpart
// user through the directory so summaries come from the cache when warm.
type SubscriptionService interface {
	// Toggle subscribes the caller to the channel, or unsubscribes when a
	// subscription already exists. Returns true when the caller is
	// subscribed after the call.
	Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error)

	// ListSubscribers retrieves one cursor page of the channel's
	// subscribers with their summaries denormalized.
	ListSubscribers(ctx context.Context, channelID uuid.UUID, req pagination.Request) (pagination.Page[Owned[model.Subscription]], error)

	// ListSubscribed retrieves one cursor page of the channels a user
	// follows with the channel summaries denormalized.
	ListSubscribed(ctx context.Context, subscriberID uuid.UUID, req pagination.Request) (pagination.Page[Owned[model.Subscription]], error)
}

type subscriptionService struct {
	repo      repository.SubscriptionRepository
	directory repository.UserDirectory
}

// NewSubscriptionService creates a new SubscriptionService instance.
func NewSubscriptionService(
	repo repository.SubscriptionRepository,
	directory repository.UserDirectory,
) SubscriptionService {
	return &subscriptionService{
		repo:      repo,
		directory: directory,
	}
}

func (s *subscriptionService) Toggle(ctx context.Context, subscriberID, channelID uuid.UUID) (bool, error) {
	sub, err := model.NewSubscription(subscriberID, channelID)
	if err != nil {
		return false, err
	}

	// The channel is a user that may live behind the remote directory, so
	// existence is checked there rather than against the local users table.
	channels, err := s.directory.BulkFetch(ctx, []uuid.UUID{channelID})
	if err != nil {
		return false, err
	}
	if channels[0] == nil {
		return false, repository.ErrUserNotFound
	}

	existing, err := s.repo.GetBySubscriberAndChannel(ctx, subscriberID, channelID)
	if err != nil {
		return false, err
	}

	if existing != nil {
		if err := s.repo.Delete(ctx, existing.ID); err != nil {
			return false, err
		}
		return false, nil
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return false, err
	}
	return true, nil
}

func (s *subscriptionService) ListSubscribers(ctx context.Context, channelID uuid.UUID, req pagination.Request) (pagination.Page[Owned[model.Subscription]], error) {
	return s.page(ctx, req,
		func(ctx context.Context, req pagination.Request) ([]*model.Subscription, error) {
			return s.repo.ListByChannel(ctx, channelID, req)
		},
		func(sub *model.Subscription) uuid.UUID { return sub.SubscriberID })
}

func (s *subscriptionService) ListSubscribed(ctx context.Context, subscriberID uuid.UUID, req pagination.Request) (pagination.Page[Owned[model.Subscription]], error) {
	return s.page(ctx, req,
		func(ctx context.Context, req pagination.Request) ([]*model.Subscription, error) {
			return s.repo.ListBySubscriber(ctx, subscriberID, req)
		},
		func(sub *model.Subscription) uuid.UUID { return sub.ChannelID })
}

// page assembles one listing page: fetch with look-ahead, trim, then resolve
// the side of each subscription the caller is interested in.
func (s *subscriptionService) page(
	ctx context.Context,
	req pagination.Request,
	list func(ctx context.Context, req pagination.Request) ([]*model.Subscription, error),
	counterpart func(*model.Subscription) uuid.UUID,
) (pagination.Page[Owned[model.Subscription]], error) {
	req = req.Normalize()

	batch, err := list(ctx, req)
	if err != nil {
		return pagination.Page[Owned[model.Subscription]]{}, err
	}

	page := pagination.NewPage(batch, req.Limit, func(sub *model.Subscription) uuid.UUID { return sub.ID })

	items, err := denormalizeOwners(ctx, s.directory, page.Items, counterpart)
	if err != nil {
		return pagination.Page[Owned[model.Subscription]]{}, err
	}

	return pagination.Page[Owned[model.Subscription]]{
		Items:       items,
		NextCursor:  page.NextCursor,
		HasNextPage: page.HasNextPage,
	}, nil
}
