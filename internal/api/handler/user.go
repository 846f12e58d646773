package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/infrastructure/auth"
	"github.com/videotube-dev/videotube/internal/usecase"
)

const maxUploadMemory = 32 << 20 // 32 MiB buffered before spilling to disk

// Request/Response types

type UserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FullName   string `json:"full_name"`
	Biography  string `json:"biography,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
	CoverImage string `json:"cover_image,omitempty"`
	CreatedAt  string `json:"created_at"`
	UpdatedAt  string `json:"updated_at"`
}

type RegisterResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type LoginRequest struct {
	Username string `json:"username"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type UpdateProfileRequest struct {
	Username  *string `json:"username"`
	Email     *string `json:"email"`
	FullName  *string `json:"full_name"`
	Biography *string `json:"biography"`
}

type BulkUsersRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type BulkUsersResponse struct {
	Users []*model.UserSummary `json:"users"`
}

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	svc    usecase.UserService
	tokens *auth.Manager
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc usecase.UserService, tokens *auth.Manager) *UserHandler {
	return &UserHandler{svc: svc, tokens: tokens}
}

// Register handles POST /v1/users (multipart form with optional avatar and
// cover_image files).
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Expected multipart form data")
		return
	}

	input := usecase.RegisterInput{
		Username:  r.FormValue("username"),
		Email:     r.FormValue("email"),
		FullName:  r.FormValue("full_name"),
		Biography: r.FormValue("biography"),
	}

	avatar, closeAvatar, err := formUpload(r, "avatar")
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_avatar", "Could not read avatar upload")
		return
	}
	defer closeAvatar()
	input.Avatar = avatar

	cover, closeCover, err := formUpload(r, "cover_image")
	if err != nil {
		Error(w, http.StatusBadRequest, "invalid_cover_image", "Could not read cover image upload")
		return
	}
	defer closeCover()
	input.CoverImage = cover

	user, err := h.svc.Register(r.Context(), input)
	if err != nil {
		ServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(auth.Principal{UserID: user.ID, Username: user.Username})
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusCreated, RegisterResponse{User: toUserResponse(user), Token: token})
}

// Login handles POST /v1/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Username == "" {
		Error(w, http.StatusBadRequest, "invalid_username", "Username is required")
		return
	}

	user, err := h.svc.GetByUsername(r.Context(), req.Username)
	if err != nil {
		ServiceError(w, err)
		return
	}

	token, err := h.tokens.Issue(auth.Principal{UserID: user.ID, Username: user.Username})
	if err != nil {
		ServiceError(w, err)
		return
	}

	JSON(w, http.StatusOK, LoginResponse{Token: token})
}

// Logout handles POST /v1/users/logout. Drops the caller's cache entry so a
// stale session cannot serve cached profile data.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	if err := h.svc.DropCache(r.Context(), principal.UserID); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCurrent handles GET /v1/users/me
func (h *UserHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	user, err := h.svc.GetCurrent(r.Context(), principal.UserID)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateProfile handles PATCH /v1/users/me
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), principal.UserID, usecase.UpdateProfileInput{
		Username:  req.Username,
		Email:     req.Email,
		FullName:  req.FullName,
		Biography: req.Biography,
	})
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateAvatar handles PATCH /v1/users/me/avatar (multipart, field "avatar").
func (h *UserHandler) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.updateAsset(w, r, "avatar", h.svc.UpdateAvatar)
}

// RemoveAvatar handles DELETE /v1/users/me/avatar
func (h *UserHandler) RemoveAvatar(w http.ResponseWriter, r *http.Request) {
	h.removeAsset(w, r, h.svc.RemoveAvatar)
}

// UpdateCoverImage handles PATCH /v1/users/me/cover-image (multipart, field
// "cover_image").
func (h *UserHandler) UpdateCoverImage(w http.ResponseWriter, r *http.Request) {
	h.updateAsset(w, r, "cover_image", h.svc.UpdateCoverImage)
}

// RemoveCoverImage handles DELETE /v1/users/me/cover-image
func (h *UserHandler) RemoveCoverImage(w http.ResponseWriter, r *http.Request) {
	h.removeAsset(w, r, h.svc.RemoveCoverImage)
}

// Bulk handles POST /v1/users/bulk. The response is aligned with the request
// ids, null per missing user.
func (h *UserHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req BulkUsersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	users, err := h.svc.BulkFetch(r.Context(), req.IDs)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, BulkUsersResponse{Users: users})
}

// Delete handles DELETE /v1/users/me
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	if err := h.svc.Delete(r.Context(), principal.UserID); err != nil {
		ServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) updateAsset(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(ctx context.Context, id uuid.UUID, upload usecase.MediaUpload) (*model.User, error),
) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		Error(w, http.StatusBadRequest, "invalid_request", "Expected multipart form data")
		return
	}

	upload, closeUpload, err := formUpload(r, field)
	if err != nil || upload == nil {
		Error(w, http.StatusBadRequest, "missing_file", "Expected a "+field+" file")
		return
	}
	defer closeUpload()

	user, err := update(r.Context(), principal.UserID, *upload)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) removeAsset(
	w http.ResponseWriter,
	r *http.Request,
	remove func(ctx context.Context, id uuid.UUID) (*model.User, error),
) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		Error(w, http.StatusUnauthorized, "unauthorized", "Missing principal")
		return
	}

	user, err := remove(r.Context(), principal.UserID)
	if err != nil {
		ServiceError(w, err)
		return
	}
	JSON(w, http.StatusOK, toUserResponse(user))
}

// formUpload opens an optional multipart file. The returned close function is
// always safe to defer.
func formUpload(r *http.Request, field string) (*usecase.MediaUpload, func(), error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, err
	}

	return &usecase.MediaUpload{
		Reader:      file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}, func() { file.Close() }, nil
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:         u.ID.String(),
		Username:   u.Username,
		Email:      u.Email,
		FullName:   u.FullName,
		Biography:  u.Biography,
		Avatar:     u.Avatar.URL,
		CoverImage: u.CoverImage.URL,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  u.UpdatedAt.Format(time.RFC3339),
	}
}
