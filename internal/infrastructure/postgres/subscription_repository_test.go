package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/pagination"
)

func newSubscriptionRows(subs ...*model.Subscription) *pgxmock.Rows {
	rows := pgxmock.NewRows([]string{"id", "subscriber_id", "channel_id", "created_at"})
	for _, s := range subs {
		rows.AddRow(s.ID, s.SubscriberID, s.ChannelID, s.CreatedAt)
	}
	return rows
}

func TestSubscriptionRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	sub, err := model.NewSubscription(uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("NewSubscription() error = %v", err)
	}

	mock.ExpectExec("INSERT INTO subscriptions").
		WithArgs(sub.ID, sub.SubscriberID, sub.ChannelID, sub.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewSubscriptionRepository(mock)
	if err := repo.Create(context.Background(), sub); err != nil {
		t.Errorf("Create() error = %v", err)
	}
}

func TestSubscriptionRepository_GetBySubscriberAndChannel_Absent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	subscriberID, channelID := uuid.New(), uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM subscriptions").
		WithArgs(subscriberID, channelID).
		WillReturnRows(newSubscriptionRows())

	repo := NewSubscriptionRepository(mock)
	got, err := repo.GetBySubscriberAndChannel(context.Background(), subscriberID, channelID)
	if err != nil {
		t.Fatalf("GetBySubscriberAndChannel() error = %v", err)
	}
	if got != nil {
		t.Errorf("got = %+v, want nil when not subscribed", got)
	}
}

func TestSubscriptionRepository_ListByChannel_WithCursor(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	channelID, cursor := uuid.New(), uuid.New()
	now := time.Now()
	sub := &model.Subscription{ID: uuid.New(), SubscriberID: uuid.New(), ChannelID: channelID, CreatedAt: now}

	mock.ExpectQuery(`SELECT created_at FROM subscriptions WHERE id = \$1`).
		WithArgs(cursor).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(now))
	mock.ExpectQuery(`SELECT (.+) FROM subscriptions WHERE channel_id = \$1 AND \(created_at, id\) < \(\$2, \$3\) ORDER BY created_at DESC, id DESC LIMIT \$4`).
		WithArgs(channelID, now, cursor, 11).
		WillReturnRows(newSubscriptionRows(sub))

	repo := NewSubscriptionRepository(mock)
	req := pagination.Request{Cursor: cursor}.Normalize()

	got, err := repo.ListByChannel(context.Background(), channelID, req)
	if err != nil {
		t.Fatalf("ListByChannel() error = %v", err)
	}
	if len(got) != 1 || got[0].ChannelID != channelID {
		t.Errorf("got = %+v, want the single subscription back", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSubscriptionRepository_ListBySubscriber(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	subscriberID := uuid.New()
	sub := &model.Subscription{ID: uuid.New(), SubscriberID: subscriberID, ChannelID: uuid.New(), CreatedAt: time.Now()}

	mock.ExpectQuery(`SELECT (.+) FROM subscriptions WHERE subscriber_id = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2`).
		WithArgs(subscriberID, 11).
		WillReturnRows(newSubscriptionRows(sub))

	repo := NewSubscriptionRepository(mock)
	got, err := repo.ListBySubscriber(context.Background(), subscriberID, pagination.Request{}.Normalize())
	if err != nil {
		t.Fatalf("ListBySubscriber() error = %v", err)
	}
	if len(got) != 1 || got[0].SubscriberID != subscriberID {
		t.Errorf("got = %+v, want the single subscription back", got)
	}
}

func TestSubscriptionRepository_ListByChannel_UnsubscribedCursorRow(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	// The subscription the client paged past was removed by an unsubscribe.
	cursor := uuid.New()
	mock.ExpectQuery(`SELECT created_at FROM subscriptions WHERE id = \$1`).
		WithArgs(cursor).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}))

	repo := NewSubscriptionRepository(mock)
	req := pagination.Request{Cursor: cursor}.Normalize()

	_, err = repo.ListByChannel(context.Background(), uuid.New(), req)
	if !errors.Is(err, repository.ErrInvalidCursor) {
		t.Errorf("ListByChannel() error = %v, want ErrInvalidCursor", err)
	}
}

func TestSubscriptionRepository_ListByChannel_InvalidSortField(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	repo := NewSubscriptionRepository(mock)
	req := pagination.Request{SortBy: "views"}.Normalize()

	_, err = repo.ListByChannel(context.Background(), uuid.New(), req)
	if !errors.Is(err, repository.ErrInvalidSortField) {
		t.Errorf("ListByChannel() error = %v, want ErrInvalidSortField", err)
	}
}

func TestSubscriptionRepository_Delete_AbsentIsNoOp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	id := uuid.New()
	mock.ExpectExec("DELETE FROM subscriptions").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	repo := NewSubscriptionRepository(mock)
	if err := repo.Delete(context.Background(), id); err != nil {
		t.Errorf("Delete() error = %v, want nil when not subscribed", err)
	}
}
