package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"

	"github.com/videotube-dev/videotube/internal/domain/model"
)

// Fixed field set of a cached user hash entry. Using an enumerated set
// keeps the cache schema from drifting away from the primary store.
// Credentials and tokens are never cached.
const (
	userFieldID         = "id"
	userFieldUsername   = "username"
	userFieldFullName   = "full_name"
	userFieldEmail      = "email"
	userFieldBiography  = "biography"
	userFieldAvatar     = "avatar"
	userFieldCoverImage = "cover_image"
)

// UserCache stores user projections as hash entries keyed user:<id>.
type UserCache struct {
	hashes *Hashes
}

// NewUserCache creates a user cache over the given hash adapter.
func NewUserCache(hashes *Hashes) *UserCache {
	return &UserCache{hashes: hashes}
}

func userFields(u *model.User) map[string]any {
	return map[string]any{
		userFieldID:         u.ID.String(),
		userFieldUsername:   u.Username,
		userFieldFullName:   u.FullName,
		userFieldEmail:      u.Email,
		userFieldBiography:  u.Biography,
		userFieldAvatar:     u.Avatar,
		userFieldCoverImage: u.CoverImage,
	}
}

// Put writes the full field set of one user.
func (c *UserCache) Put(ctx context.Context, user *model.User) error {
	return c.hashes.SetFields(ctx, UserKey(user.ID), userFields(user))
}

// PutBatch repopulates several users in a single pipelined round trip.
func (c *UserCache) PutBatch(ctx context.Context, users []*model.User) error {
	writes := make([]HashWrite, 0, len(users))
	for _, u := range users {
		writes = append(writes, HashWrite{Key: UserKey(u.ID), Fields: userFields(u)})
	}
	return c.hashes.SetFieldsBatch(ctx, writes)
}

// Get retrieves one cached user. Returns nil, nil on a miss.
func (c *UserCache) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	entry, err := c.hashes.GetAll(ctx, UserKey(id))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return decodeUser(UserKey(id), entry), nil
}

// GetBatch retrieves several cached users in one pipelined round trip.
// The result is index-aligned with ids, nil per miss.
func (c *UserCache) GetBatch(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = UserKey(id)
	}

	entries, err := c.hashes.GetAllBatch(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]*model.User, len(ids))
	for i, entry := range entries {
		if entry == nil {
			continue
		}
		out[i] = decodeUser(keys[i], entry)
	}
	return out, nil
}

// SetUsername upserts the username field.
func (c *UserCache) SetUsername(ctx context.Context, id uuid.UUID, username string) error {
	return c.hashes.SetField(ctx, UserKey(id), userFieldUsername, username)
}

// SetFullName upserts the full name field.
func (c *UserCache) SetFullName(ctx context.Context, id uuid.UUID, fullName string) error {
	return c.hashes.SetField(ctx, UserKey(id), userFieldFullName, fullName)
}

// SetEmail upserts the email field.
func (c *UserCache) SetEmail(ctx context.Context, id uuid.UUID, email string) error {
	return c.hashes.SetField(ctx, UserKey(id), userFieldEmail, email)
}

// SetBiography upserts the biography field.
func (c *UserCache) SetBiography(ctx context.Context, id uuid.UUID, biography string) error {
	return c.hashes.SetField(ctx, UserKey(id), userFieldBiography, biography)
}

// SetAvatar upserts the avatar field.
func (c *UserCache) SetAvatar(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error {
	return c.hashes.SetField(ctx, UserKey(id), userFieldAvatar, asset)
}

// SetCoverImage upserts the cover image field.
func (c *UserCache) SetCoverImage(ctx context.Context, id uuid.UUID, asset model.MediaAsset) error {
	return c.hashes.SetField(ctx, UserKey(id), userFieldCoverImage, asset)
}

// Delete invalidates the whole entry.
func (c *UserCache) Delete(ctx context.Context, id uuid.UUID) error {
	return c.hashes.DeleteKey(ctx, UserKey(id))
}

// decodeUser rebuilds a user from a filtered hash entry. The id and
// username fields are required; an entry without them is a miss. Other
// fields that fail to decode are skipped.
func decodeUser(key string, entry map[string]json.RawMessage) *model.User {
	var rawID string
	if !decodeField(key, entry, userFieldID, &rawID) {
		return nil
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		slog.Warn("cached user has malformed id, treating as miss", "key", key)
		return nil
	}

	u := model.User{ID: id}
	if !decodeField(key, entry, userFieldUsername, &u.Username) {
		return nil
	}
	decodeField(key, entry, userFieldFullName, &u.FullName)
	decodeField(key, entry, userFieldEmail, &u.Email)
	decodeField(key, entry, userFieldBiography, &u.Biography)
	decodeField(key, entry, userFieldAvatar, &u.Avatar)
	decodeField(key, entry, userFieldCoverImage, &u.CoverImage)

	return &u
}

func decodeField(key string, entry map[string]json.RawMessage, field string, dest any) bool {
	raw, ok := entry[field]
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		slog.Warn("skipping undecodable hash field",
			"key", key,
			"field", field,
			"error", err,
		)
		return false
	}
	return true
}
