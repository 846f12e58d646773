package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/infrastructure/auth"
	"github.com/videotube-dev/videotube/internal/pagination"
	"github.com/videotube-dev/videotube/internal/usecase"
)

// Request/Response types

type VideoResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	VideoFile   string  `json:"video_file,omitempty"`
	Thumbnail   string  `json:"thumbnail,omitempty"`
	Duration    float64 `json:"duration"`
	Views       int64   `json:"views"`
	IsPublished bool    `json:"is_published"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

type OwnedVideoResponse struct {
	VideoResponse
	Owner *model.UserSummary `json:"owner"`
}

type VideoPageResponse struct {
	Items       []OwnedVideoResponse `json:"items"`
	NextCursor  string               `json:"next_cursor,omitempty"`
	HasNextPage bool                 `json:"has_next_page"`
}

type UpdateVideoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// VideoHandler handles video-related HTTP requests.
type VideoHandler struct {
	svc usecase.VideoService
}

// NewVideoHandler creates a new VideoHandler.
func NewVideoHandler(svc usecase.VideoService) *VideoHandler {
	return &VideoHandler{svc: svc}
}

// Publish handles POST /v1/videos (multipart with video_file and thumbnail).
func (h *VideoHandler) Publish(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Expected multipart form data")
		return
	}

	var duration float64
	if raw := r.FormValue("duration"); raw != "" {
		var err error
		duration, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_duration", "Duration must be a number")
			return
		}
	}

	videoFile, closeVideo, err := formUpload(r, "video_file")
	if err != nil || videoFile == nil {
		Error(w, http.StatusBadRequest, "missing_file", "Expected a video_file upload")
		return
	}
	defer closeVideo()

	thumbnail, closeThumb, err := formUpload(r, "thumbnail")
	if err != nil || thumbnail == nil {
		Error(w, http.StatusBadRequest, "missing_file", "Expected a thumbnail upload")
		return
	}
	defer closeThumb()

	video, err := h.svc.Publish(r.Context(), usecase.PublishVideoInput{
		OwnerID:     principal.UserID,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Duration:    duration,
		VideoFile:   *videoFile,
		Thumbnail:   *thumbnail,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, toVideoResponse(video))
}

// Get handles GET /v1/videos/{id}
func (h *VideoHandler) Get(w http.ResponseWriter, r *http.Request) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return
	}

	owned, err := h.svc.Get(r.Context(), videoID)
	if err != nil {
		ServiceError(w, err)
		return
	}

	if err := h.svc.RegisterView(r.Context(), videoID); err != nil {
		slog.Warn("failed to register view", "video_id", videoID, "error", err)
	}

	JSON(w, http.StatusOK, OwnedVideoResponse{
		VideoResponse: toVideoResponse(owned.Item),
		Owner:         owned.Owner,
	})
}

// List handles GET /v1/videos
func (h *VideoHandler) List(w http.ResponseWriter, r *http.Request) {
	req, err := pagination.FromQuery(r.URL.Query())
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_pagination", err.Error())
		return
	}

	input := usecase.ListVideosInput{
		Query: r.URL.Query().Get("query"),
		Page:  req,
	}
	if raw := r.URL.Query().Get("owner_id"); raw != "" {
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			Error(w, http.StatusBadRequest, "invalid_owner_id", "Owner ID must be a valid UUID")
			return
		}
		input.OwnerID = ownerID
	}

	page, err := h.svc.List(r.Context(), input)
	if err != nil {
		ServiceError(w, err)
		return
	}

	resp := VideoPageResponse{
		Items:       make([]OwnedVideoResponse, len(page.Items)),
		HasNextPage: page.HasNextPage,
	}
	if page.HasNextPage {
		resp.NextCursor = page.NextCursor.String()
	}
	for i, item := range page.Items {
		resp.Items[i] = OwnedVideoResponse{
			VideoResponse: toVideoResponse(item.Item),
			Owner:         item.Owner,
		}
	}
	JSON(w, http.StatusOK, resp)
}

// UpdateDetails handles PATCH /v1/videos/{id}
func (h *VideoHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	var req UpdateVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	video, err := h.svc.UpdateDetails(r.Context(), videoID, usecase.UpdateVideoDetailsInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toVideoResponse(video))
}

// UpdateThumbnail handles PATCH /v1/videos/{id}/thumbnail
func (h *VideoHandler) UpdateThumbnail(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Expected multipart form data")
		return
	}

	thumbnail, closeThumb, err := formUpload(r, "thumbnail")
	if err != nil || thumbnail == nil {
		Error(w, http.StatusBadRequest, "missing_file", "Expected a thumbnail upload")
		return
	}
	defer closeThumb()

	video, err := h.svc.UpdateThumbnail(r.Context(), videoID, *thumbnail)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toVideoResponse(video))
}

// TogglePublish handles POST /v1/videos/{id}/toggle-publish
func (h *VideoHandler) TogglePublish(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	video, err := h.svc.TogglePublish(r.Context(), videoID)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toVideoResponse(video))
}

// Delete handles DELETE /v1/videos/{id}
func (h *VideoHandler) Delete(w http.ResponseWriter, r *http.Request) {
	videoID, ok := h.authorizeOwner(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), videoID); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// authorizeOwner parses the path id and verifies the caller owns the video.
// Writes the error response itself when the check fails.
func (h *VideoHandler) authorizeOwner(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	videoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_video_id", "Video ID must be a valid UUID")
		return uuid.Nil, false
	}

	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return uuid.Nil, false
	}

	owned, err := h.svc.Get(r.Context(), videoID)
	if err != nil {
		ServiceError(w, err)
		return uuid.Nil, false
	}
	if owned.Item.OwnerID != principal.UserID {
		Error(w, http.StatusForbidden, "not_owner", "Video belongs to another user")
		return uuid.Nil, false
	}
	return videoID, true
}

func toVideoResponse(v *model.Video) VideoResponse {
	return VideoResponse{
		ID:          v.ID.String(),
		OwnerID:     v.OwnerID.String(),
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile.URL,
		Thumbnail:   v.Thumbnail.URL,
		Duration:    v.Duration,
		Views:       v.Views,
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   v.UpdatedAt.Format(time.RFC3339),
	}
}
