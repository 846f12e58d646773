package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/infrastructure/auth"
	"github.com/videotube-dev/videotube/internal/pagination"
	"github.com/videotube-dev/videotube/internal/usecase"
)

// Request/Response types

type ToggleSubscribeResponse struct {
	Subscribed bool `json:"subscribed"`
}

type SubscriptionResponse struct {
	ID           string             `json:"id"`
	SubscriberID string             `json:"subscriber_id"`
	ChannelID    string             `json:"channel_id"`
	Owner        *model.UserSummary `json:"owner,omitempty"`
	CreatedAt    string             `json:"created_at"`
}

type SubscriptionPageResponse struct {
	Items       []SubscriptionResponse `json:"items"`
	NextCursor  string                 `json:"next_cursor,omitempty"`
	HasNextPage bool                   `json:"has_next_page"`
}

// SubscriptionHandler handles subscription-related HTTP requests.
type SubscriptionHandler struct {
	svc usecase.SubscriptionService
}

// NewSubscriptionHandler creates a new SubscriptionHandler.
func NewSubscriptionHandler(svc usecase.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{svc: svc}
}

// Toggle handles POST /v1/channels/{id}/toggle-subscribe
func (h *SubscriptionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	channelID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_channel_id", "Channel ID must be a valid UUID")
		return
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	subscribed, err := h.svc.Toggle(r.Context(), principal.UserID, channelID)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, ToggleSubscribeResponse{Subscribed: subscribed})
}

// ListSubscribers handles GET /v1/channels/{id}/subscribers
func (h *SubscriptionHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.ListSubscribers)
}

// ListSubscribed handles GET /v1/channels/{id}/subscribed
func (h *SubscriptionHandler) ListSubscribed(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.ListSubscribed)
}

func (h *SubscriptionHandler) list(
	w http.ResponseWriter,
	r *http.Request,
	list func(ctx context.Context, id uuid.UUID, req pagination.Request) (pagination.Page[usecase.Owned[model.Subscription]], error),
) {
	channelID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_channel_id", "Channel ID must be a valid UUID")
		return
	}

	req, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_pagination", err.Error())
		return
	}

	page, err := list(r.Context(), channelID, req)
	if err != nil {
		ServiceError(w, err)
		return
	}

	resp := SubscriptionPageResponse{
		Items:       make([]SubscriptionResponse, len(page.Items)),
		HasNextPage: page.HasNextPage,
	}
	if page.HasNextPage {
		resp.NextCursor = page.NextCursor.String()
	}
	for i, item := range page.Items {
		resp.Items[i] = SubscriptionResponse{
			ID:           item.Item.ID.String(),
			SubscriberID: item.Item.SubscriberID.String(),
			ChannelID:    item.Item.ChannelID.String(),
			Owner:        item.Owner,
			CreatedAt:    item.Item.CreatedAt.Format(time.RFC3339),
		}
	}
	JSON(w, http.StatusOK, resp)
}
