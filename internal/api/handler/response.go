package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/videotube-dev/videotube/internal/domain/model"
	"github.com/videotube-dev/videotube/internal/domain/repository"
	"github.com/videotube-dev/videotube/internal/usecase"
)

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func Error(w http.ResponseWriter, status int, err string, message string) {
	JSON(w, status, ErrorResponse{
		Error:   err,
		Message: message,
	})
}

// ServiceError maps domain and repository sentinels onto HTTP statuses.
// Anything unmapped is a 500 with no internal detail leaked.
func ServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		Error(w, http.StatusNotFound, "user_not_found", "User not found")
	case errors.Is(err, repository.ErrVideoNotFound):
		Error(w, http.StatusNotFound, "video_not_found", "Video not found")
	case errors.Is(err, repository.ErrCommentNotFound):
		Error(w, http.StatusNotFound, "comment_not_found", "Comment not found")
	case errors.Is(err, repository.ErrDuplicateUser):
		Error(w, http.StatusConflict, "duplicate_user", "Username or email is already taken")
	case errors.Is(err, repository.ErrDuplicateVideo):
		Error(w, http.StatusConflict, "duplicate_video", "Video already exists")
	case errors.Is(err, repository.ErrInvalidSortField):
		Error(w, http.StatusBadRequest, "invalid_sort_field", "Unsupported sort field")
	case errors.Is(err, repository.ErrInvalidCursor):
		Error(w, http.StatusBadRequest, "invalid_cursor", "Cursor no longer exists, restart the listing")
	case errors.Is(err, usecase.ErrNotCommentOwner):
		Error(w, http.StatusForbidden, "not_owner", "Comment belongs to another user")
	case errors.Is(err, usecase.ErrNoFieldsToUpdate):
		Error(w, http.StatusBadRequest, "no_fields", "No fields to update")
	case errors.Is(err, model.ErrEmptyUsername),
		errors.Is(err, model.ErrUsernameTooLong),
		errors.Is(err, model.ErrEmptyEmail),
		errors.Is(err, model.ErrEmptyFullName),
		errors.Is(err, model.ErrEmptyTitle),
		errors.Is(err, model.ErrTitleTooLong),
		errors.Is(err, model.ErrInvalidOwnerID),
		errors.Is(err, model.ErrEmptyContent),
		errors.Is(err, model.ErrContentTooLong),
		errors.Is(err, model.ErrInvalidVideoID),
		errors.Is(err, model.ErrInvalidLikeTarget),
		errors.Is(err, model.ErrInvalidChannelID),
		errors.Is(err, model.ErrSelfSubscription):
		Error(w, http.StatusBadRequest, "validation_failed", err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred")
	}
}
