package handler

import (
	"encoding/json"
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

type CommentRequest struct {
	Content string `json:"content"`
}

type CommentResponse struct {
	ID        string             `json:"id"`
	VideoID   string             `json:"video_id"`
	OwnerID   string             `json:"owner_id"`
	Content   string             `json:"content"`
	Owner     *model.UserSummary `json:"owner,omitempty"`
	CreatedAt string             `json:"created_at"`
	UpdatedAt string             `json:"updated_at"`
}

type CommentPageResponse struct {
	Items       []CommentResponse `json:"items"`
	NextCursor  string            `json:"next_cursor,omitempty"`
	HasNextPage bool              `json:"has_next_page"`
}

// CommentHandler handles comment-related HTTP requests.
type CommentHandler struct {
	svc usecase.CommentService
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(svc usecase.CommentService) *CommentHandler {
	return &CommentHandler{svc: svc}
}

// Add handles POST /v1/videos/{id}/comments
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	comment, err := h.svc.Add(r.Context(), videoID, principal.UserID, req.Content)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusCreated, toCommentResponse(comment, nil))
}

// Get handles GET /v1/comments/{id}
func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_comment_id", "Comment ID must be a valid UUID")
		return
	}

	owned, err := h.svc.Get(r.Context(), commentID)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toCommentResponse(owned.Item, owned.Owner))
}

// Update handles PATCH /v1/comments/{id}
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_comment_id", "Comment ID must be a valid UUID")
		return
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	var req CommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	comment, err := h.svc.Update(r.Context(), commentID, principal.UserID, req.Content)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toCommentResponse(comment, nil))
}

// Delete handles DELETE /v1/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	commentID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_comment_id", "Comment ID must be a valid UUID")
		return
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	if err := h.svc.Delete(r.Context(), commentID, principal.UserID); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByVideo handles GET /v1/videos/{id}/comments
func (h *CommentHandler) ListByVideo(w http.ResponseWriter, r *http.Request) {
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

	resp := CommentPageResponse{
		Items:       make([]CommentResponse, len(page.Items)),
		HasNextPage: page.HasNextPage,
	}
	if page.HasNextPage {
		resp.NextCursor = page.NextCursor.String()
	}
	for i, item := range page.Items {
		resp.Items[i] = toCommentResponse(item.Item, item.Owner)
	}
	JSON(w, http.StatusOK, resp)
}

func toCommentResponse(c *model.Comment, owner *model.UserSummary) CommentResponse {
	return CommentResponse{
		ID:        c.ID.String(),
		VideoID:   c.VideoID.String(),
		OwnerID:   c.OwnerID.String(),
		Content:   c.Content,
		Owner:     owner,
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.Format(time.RFC3339),
	}
}
