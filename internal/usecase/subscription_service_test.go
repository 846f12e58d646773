package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/pagination"
)

func directoryWith(known ...uuid.UUID) *mockUserDirectory {
	return &mockUserDirectory{
		bulkFetchFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.UserSummary, error) {
			out := make([]*model.UserSummary, len(ids))
			for i, id := range ids {
				for _, k := range known {
					if id == k {
						out[i] = &model.UserSummary{ID: id, Username: "user-" + id.String()[:8]}
					}
				}
			}
			return out, nil
		},
	}
}

func TestSubscriptionService_Toggle(t *testing.T) {
	subscriberID := uuid.New()
	channelID := uuid.New()

	var stored *model.Subscription
	repo := &mockSubscriptionRepository{
		getBySubscriberAndChannelFn: func(ctx context.Context, sub, ch uuid.UUID) (*model.Subscription, error) {
			return stored, nil
		},
		createFn: func(ctx context.Context, sub *model.Subscription) error {
			stored = sub
			return nil
		},
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			stored = nil
			return nil
		},
	}

	svc := NewSubscriptionService(repo, directoryWith(channelID))

	subscribed, err := svc.Toggle(context.Background(), subscriberID, channelID)
	if err != nil {
		t.Fatalf("first toggle failed: %v", err)
	}
	if !subscribed {
		t.Error("first toggle should subscribe")
	}
	if stored == nil || stored.SubscriberID != subscriberID || stored.ChannelID != channelID {
		t.Fatalf("stored subscription = %+v, want subscriber %s on channel %s", stored, subscriberID, channelID)
	}

	subscribed, err = svc.Toggle(context.Background(), subscriberID, channelID)
	if err != nil {
		t.Fatalf("second toggle failed: %v", err)
	}
	if subscribed {
		t.Error("second toggle should unsubscribe")
	}
	if stored != nil {
		t.Errorf("stored subscription = %+v, want removed", stored)
	}
}

func TestSubscriptionService_Toggle_SelfSubscription(t *testing.T) {
	userID := uuid.New()
	svc := NewSubscriptionService(&mockSubscriptionRepository{}, directoryWith(userID))

	if _, err := svc.Toggle(context.Background(), userID, userID); !errors.Is(err, model.ErrSelfSubscription) {
		t.Errorf("toggle error = %v, want ErrSelfSubscription", err)
	}
}

func TestSubscriptionService_Toggle_ChannelNotFound(t *testing.T) {
	svc := NewSubscriptionService(&mockSubscriptionRepository{}, directoryWith())

	if _, err := svc.Toggle(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, repository.ErrUserNotFound) {
		t.Errorf("toggle error = %v, want ErrUserNotFound", err)
	}
}

func TestSubscriptionService_ListSubscribers(t *testing.T) {
	channelID := uuid.New()
	userA := uuid.New()
	userB := uuid.New()

	subs := make([]*model.Subscription, 0, 2)
	for _, subscriber := range []uuid.UUID{userA, userB} {
		sub, _ := model.NewSubscription(subscriber, channelID)
		subs = append(subs, sub)
	}

	repo := &mockSubscriptionRepository{
		listByChannelFn: func(ctx context.Context, ch uuid.UUID, req pagination.Request) ([]*model.Subscription, error) {
			if ch != channelID {
				t.Errorf("channel = %s, want %s", ch, channelID)
			}
			return subs, nil
		},
	}
	directory := &mockUserDirectory{
		bulkFetchFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.UserSummary, error) {
			want := []uuid.UUID{userA, userB}
			if len(ids) != len(want) {
				t.Fatalf("len(ids) = %d, want %d", len(ids), len(want))
			}
			for i, id := range ids {
				if id != want[i] {
					t.Errorf("ids[%d] = %s, want subscriber %s", i, id, want[i])
				}
			}
			return []*model.UserSummary{
				{ID: userA, Username: "alice"},
				{ID: userB, Username: "bob"},
			}, nil
		},
	}

	page, err := NewSubscriptionService(repo, directory).
		ListSubscribers(context.Background(), channelID, pagination.Request{Limit: 10})
	if err != nil {
		t.Fatalf("ListSubscribers failed: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(page.Items))
	}
	wantOwners := []string{"alice", "bob"}
	for i, item := range page.Items {
		if item.Owner == nil || item.Owner.Username != wantOwners[i] {
			t.Errorf("items[%d].Owner = %+v, want %s", i, item.Owner, wantOwners[i])
		}
	}
}

func TestSubscriptionService_ListSubscribed(t *testing.T) {
	subscriberID := uuid.New()
	channelA := uuid.New()
	channelB := uuid.New()

	subs := make([]*model.Subscription, 0, 2)
	for _, channel := range []uuid.UUID{channelA, channelB} {
		sub, _ := model.NewSubscription(subscriberID, channel)
		subs = append(subs, sub)
	}

	repo := &mockSubscriptionRepository{
		listBySubscriberFn: func(ctx context.Context, sub uuid.UUID, req pagination.Request) ([]*model.Subscription, error) {
			return subs, nil
		},
	}
	// channelB's account is gone; its slot stays nil instead of failing
	// the whole listing.
	directory := &mockUserDirectory{
		bulkFetchFn: func(ctx context.Context, ids []uuid.UUID) ([]*model.UserSummary, error) {
			out := make([]*model.UserSummary, len(ids))
			for i, id := range ids {
				if id == channelA {
					out[i] = &model.UserSummary{ID: channelA, Username: "alice"}
				}
			}
			return out, nil
		},
	}

	page, err := NewSubscriptionService(repo, directory).
		ListSubscribed(context.Background(), subscriberID, pagination.Request{Limit: 10})
	if err != nil {
		t.Fatalf("ListSubscribed failed: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(page.Items))
	}
	if page.Items[0].Owner == nil || page.Items[0].Owner.Username != "alice" {
		t.Errorf("items[0].Owner = %+v, want alice", page.Items[0].Owner)
	}
	if page.Items[1].Owner != nil {
		t.Errorf("items[1].Owner = %+v, want nil for a deleted channel", page.Items[1].Owner)
	}
}

func TestSubscriptionService_ListSubscribers_Pagination(t *testing.T) {
	channelID := uuid.New()

	// Repository returns limit+1 rows; the page keeps limit and reports
	// one more.
	subs := make([]*model.Subscription, 0, 3)
	for i := 0; i < 3; i++ {
		sub, _ := model.NewSubscription(uuid.New(), channelID)
		subs = append(subs, sub)
	}

	repo := &mockSubscriptionRepository{
		listByChannelFn: func(ctx context.Context, ch uuid.UUID, req pagination.Request) ([]*model.Subscription, error) {
			if req.FetchLimit() != 3 {
				t.Errorf("fetch limit = %d, want 3", req.FetchLimit())
			}
			return subs, nil
		},
	}

	page, err := NewSubscriptionService(repo, &mockUserDirectory{}).
		ListSubscribers(context.Background(), channelID, pagination.Request{Limit: 2})
	if err != nil {
		t.Fatalf("ListSubscribers failed: %v", err)
	}

	if len(page.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(page.Items))
	}
	if !page.HasNextPage {
		t.Error("HasNextPage = false, want true")
	}
	if page.NextCursor != subs[1].ID {
		t.Errorf("NextCursor = %s, want %s", page.NextCursor, subs[1].ID)
	}
}
