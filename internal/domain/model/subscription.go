package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Subscription represents a user following a channel. The channel is just
// another user; SubscriberID and ChannelID are both user ids.
type Subscription struct {
	ID           uuid.UUID
	SubscriberID uuid.UUID
	ChannelID    uuid.UUID
	CreatedAt    time.Time
}

var (
	ErrInvalidChannelID = errors.New("channel ID cannot be nil")
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
)

// NewSubscription creates a new Subscription.
func NewSubscription(subscriberID, channelID uuid.UUID) (*Subscription, error) {
	if subscriberID == uuid.Nil {
		return nil, ErrInvalidOwnerID
	}
	if channelID == uuid.Nil {
		return nil, ErrInvalidChannelID
	}
	if subscriberID == channelID {
		return nil, ErrSelfSubscription
	}

	return &Subscription{
		ID:           uuid.New(),
		SubscriberID: subscriberID,
		ChannelID:    channelID,
		CreatedAt:    time.Now(),
	}, nil
}
