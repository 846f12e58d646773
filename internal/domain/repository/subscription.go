package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/pagination"
)

// SubscriptionRepository defines the interface for subscription persistence
// operations.
type SubscriptionRepository interface {
	// Create persists a new subscription.
	Create(ctx context.Context, sub *model.Subscription) error

	// GetBySubscriberAndChannel retrieves a user's subscription to a channel.
	// Returns nil, nil when the user is not subscribed.
	GetBySubscriberAndChannel(ctx context.Context, subscriberID, channelID uuid.UUID) (*model.Subscription, error)

	// ListByChannel retrieves one page of a channel's subscribers, fetching
	// up to req.FetchLimit() rows.
	ListByChannel(ctx context.Context, channelID uuid.UUID, req pagination.Request) ([]*model.Subscription, error)

	// ListBySubscriber retrieves one page of the channels a user follows,
	// fetching up to req.FetchLimit() rows.
	ListBySubscriber(ctx context.Context, subscriberID uuid.UUID, req pagination.Request) ([]*model.Subscription, error)

	// Delete removes a subscription. Deleting an absent subscription is a
	// no-op.
	Delete(ctx context.Context, id uuid.UUID) error
}
