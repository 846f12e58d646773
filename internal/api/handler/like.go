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

type ToggleLikeResponse struct {
	Liked bool `json:"liked"`
}

type LikeResponse struct {
	ID        string             `json:"id"`
	OwnerID   string             `json:"owner_id"`
	Owner     *model.UserSummary `json:"owner,omitempty"`
	CreatedAt string             `json:"created_at"`
}

type LikePageResponse struct {
	Items       []LikeResponse `json:"items"`
	NextCursor  string         `json:"next_cursor,omitempty"`
	HasNextPage bool           `json:"has_next_page"`
}

// LikeHandler handles like-related HTTP requests.
type LikeHandler struct {
	svc usecase.LikeService
}

// NewLikeHandler creates a new LikeHandler.
func NewLikeHandler(svc usecase.LikeService) *LikeHandler {
	return &LikeHandler{svc: svc}
}

// ToggleVideo handles POST /v1/videos/{id}/toggle-like
func (h *LikeHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.svc.ToggleVideoLike)
}

// ToggleComment handles POST /v1/comments/{id}/toggle-like
func (h *LikeHandler) ToggleComment(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, h.svc.ToggleCommentLike)
}

func (h *LikeHandler) toggle(
	w http.ResponseWriter,
	r *http.Request,
	toggle func(ctx context.Context, ownerID, targetID uuid.UUID) (bool, error),
) {
	targetID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_id", "Target ID must be a valid UUID")
		return
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	liked, err := toggle(r.Context(), principal.UserID, targetID)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, ToggleLikeResponse{Liked: liked})
}

// ListByVideo handles GET /v1/videos/{id}/likes
func (h *LikeHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	req, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_pagination", err.Error())
		return
	}

	page, err := h.svc.ListByVideo(r.Context(), videoID, req)
	if err != nil {
		ServiceError(w, err)
		return
	}

	resp := LikePageResponse{
		Items:       make([]LikeResponse, len(page.Items)),
		HasNextPage: page.HasNextPage,
	}
	if page.HasNextPage {
		resp.NextCursor = page.NextCursor.String()
	}
	for i, item := range page.Items {
		resp.Items[i] = LikeResponse{
			ID:        item.Item.ID.String(),
			OwnerID:   item.Item.OwnerID.String(),
			Owner:     item.Owner,
			CreatedAt: item.Item.CreatedAt.Format(time.RFC3339),
		}
	}
	JSON(w, http.StatusOK, resp)
}
