package cache

import "github.com/google/uuid"

// Cache key namespacing convention: <entity-type>:<entity-id>.
// Every component must build keys through these helpers or cross-component
// cache sharing breaks silently.
const (
	userKeyPrefix     = "user:"
	videoKeyPrefix    = "video:"
	usernameKeyPrefix = "username:"
)

// UserKey returns the hash entry key for a user.
func UserKey(id uuid.UUID) string {
	return userKeyPrefix + id.String()
}

// VideoKey returns the hash entry key for a video.
func VideoKey(id uuid.UUID) string {
	return videoKeyPrefix + id.String()
}

// UsernameKey returns the string entry key indexing a username to a user ID.
func UsernameKey(username string) string {
	return usernameKeyPrefix + username
}
