package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/infrastructure/metrics"
	"github.com/videotube-dev/videotube/internal/pagination"
)

const subscriptionColumns = `id, subscriber_id, channel_id, created_at`

// subscriptionSortColumns maps API sort field names to subscriptions columns.
var subscriptionSortColumns = map[string]string{
	"createdAt": "created_at",
}

// SubscriptionRepository implements repository.SubscriptionRepository using
// PostgreSQL.
type SubscriptionRepository struct {
	db DBTX
}

// NewSubscriptionRepository creates a new SubscriptionRepository instance.
func NewSubscriptionRepository(db DBTX) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// Create persists a new subscription.
func (r *SubscriptionRepository) Create(ctx context.Context, sub *model.Subscription) error {
	const query = `
		INSERT INTO subscriptions (id, subscriber_id, channel_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryInsert, metrics.TableSubscriptions).Inc()

	_, err := r.db.Exec(ctx, query,
		sub.ID,
		sub.SubscriberID,
		sub.ChannelID,
		sub.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	return nil
}

// GetBySubscriberAndChannel retrieves a user's subscription to a channel.
// Returns nil, nil when the user is not subscribed.
func (r *SubscriptionRepository) GetBySubscriberAndChannel(ctx context.Context, subscriberID, channelID uuid.UUID) (*model.Subscription, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscriptions
		WHERE subscriber_id = $1 AND channel_id = $2
	`, subscriptionColumns)

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableSubscriptions).Inc()

	sub, err := scanSubscription(r.db.QueryRow(ctx, query, subscriberID, channelID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	return sub, nil
}

// ListByChannel retrieves one page of a channel's subscribers using keyset
// pagination.
func (r *SubscriptionRepository) ListByChannel(ctx context.Context, channelID uuid.UUID, req pagination.Request) ([]*model.Subscription, error) {
	return r.list(ctx, "channel_id", channelID, req)
}

// ListBySubscriber retrieves one page of the channels a user follows using
// keyset pagination.
func (r *SubscriptionRepository) ListBySubscriber(ctx context.Context, subscriberID uuid.UUID, req pagination.Request) ([]*model.Subscription, error) {
	return r.list(ctx, "subscriber_id", subscriberID, req)
}

func (r *SubscriptionRepository) list(ctx context.Context, filterColumn string, filterID uuid.UUID, req pagination.Request) ([]*model.Subscription, error) {
	column, err := sortColumn(subscriptionSortColumns, req.SortBy)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE %s = $1`, subscriptionColumns, filterColumn)
	args := []any{filterID}

	if req.HasCursor() {
		anchor, err := cursorAnchor(ctx, r.db, "subscriptions", column, req.Cursor)
		if err != nil {
			return nil, err
		}
		args = append(args, anchor, req.Cursor)
		query += " AND " + cursorPredicate(column, req.Order, len(args)-1, len(args))
	}

	args = append(args, req.FetchLimit())
	query += fmt.Sprintf(" %s LIMIT $%d", orderClause(column, req.Order), len(args))

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableSubscriptions).Inc()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []*model.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}

	return subs, nil
}

// Delete removes a subscription. Deleting an absent subscription is a no-op.
func (r *SubscriptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM subscriptions WHERE id = $1`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryDelete, metrics.TableSubscriptions).Inc()

	if _, err := r.db.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	return nil
}

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var sub model.Subscription

	err := row.Scan(
		&sub.ID,
		&sub.SubscriberID,
		&sub.ChannelID,
		&sub.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &sub, nil
}

// Compile-time verification that SubscriptionRepository implements repository.SubscriptionRepository.
var _ repository.SubscriptionRepository = (*SubscriptionRepository)(nil)
