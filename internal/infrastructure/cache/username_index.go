package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UsernameIndex maps lowercased usernames to user IDs as whole-value string
// entries. Unlike the hash entries it expires on its own; a stale mapping is
// repaired by the lookup path, so TTL drift is harmless.
type UsernameIndex struct {
	strings *Strings
	ttl     time.Duration
}

// NewUsernameIndex creates a username index with the given entry TTL.
// A zero ttl means DefaultTTL.
func NewUsernameIndex(strings *Strings, ttl time.Duration) *UsernameIndex {
	return &UsernameIndex{strings: strings, ttl: ttl}
}

// Get resolves a username to a user ID. Returns false on a miss.
func (i *UsernameIndex) Get(ctx context.Context, username string) (uuid.UUID, bool, error) {
	var raw string
	found, err := i.strings.Get(ctx, UsernameKey(username), &raw)
	if err != nil || !found {
		return uuid.Nil, false, err
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt username index entry for %q: %w", username, err)
	}
	return id, true, nil
}

// Set stores the username to ID mapping.
func (i *UsernameIndex) Set(ctx context.Context, username string, id uuid.UUID) error {
	return i.strings.Set(ctx, UsernameKey(username), id.String(), i.ttl)
}

// Delete removes the mapping. Deleting an absent mapping is a no-op.
func (i *UsernameIndex) Delete(ctx context.Context, username string) error {
	return i.strings.Delete(ctx, UsernameKey(username))
}
