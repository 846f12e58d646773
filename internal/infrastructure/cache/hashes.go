package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/videotube-dev/videotube/internal/infrastructure/metrics"
)

// Hashes provides per-field cache entries: one key maps field names to
// independently settable JSON values. Fields carry no individual TTL;
// expiry is whole-key deletion only.
type Hashes struct {
	client *redis.Client
}

// NewHashes creates a hash-entry adapter over the given Redis client.
func NewHashes(client *redis.Client) *Hashes {
	return &Hashes{client: client}
}

// HashWrite is one full hash repopulation: every field of one entry.
type HashWrite struct {
	Key    string
	Fields map[string]any
}

// GetField retrieves and decodes one field into dest. Returns false on a
// miss; a corrupt stored value is reported as a miss, never as an error.
func (h *Hashes) GetField(ctx context.Context, key, field string, dest any) (bool, error) {
	data, err := h.client.HGet(ctx, key, field).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
			return false, nil
		}
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return false, fmt.Errorf("redis hget: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		slog.Warn("corrupt hash field treated as miss",
			"key", key,
			"field", field,
			"error", err,
		)
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
		return false, nil
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
	return true, nil
}

// GetFields retrieves several fields in one round trip. The result is
// index-aligned with the requested fields, nil per absent or corrupt field,
// so callers can zip it back against the input list.
func (h *Hashes) GetFields(ctx context.Context, key string, fields []string) ([]json.RawMessage, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	values, err := h.client.HMGet(ctx, key, fields...).Result()
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return nil, fmt.Errorf("redis hmget: %w", err)
	}

	out := make([]json.RawMessage, len(fields))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok || !json.Valid([]byte(raw)) {
			continue
		}
		out[i] = json.RawMessage(raw)
	}

	return out, nil
}

// SetField upserts one field. Other fields and the key's lifetime are
// untouched.
func (h *Hashes) SetField(ctx context.Context, key, field string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("serialize hash field: %w", err)
	}

	if err := h.client.HSet(ctx, key, field, data).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis hset: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	return nil
}

// SetFields upserts several fields of one entry in a single command.
func (h *Hashes) SetFields(ctx context.Context, key string, fields map[string]any) error {
	encoded, err := encodeFields(fields)
	if err != nil {
		return err
	}

	if err := h.client.HSet(ctx, key, encoded).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis hset: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	return nil
}

// GetAll retrieves every field of an entry. Empty or whitespace-only stored
// values are filtered out and corrupt values skipped (logged); an entry
// with zero surviving fields is a miss (nil map), never a
// present-but-empty entity.
func (h *Hashes) GetAll(ctx context.Context, key string) (map[string]json.RawMessage, error) {
	data, err := h.client.HGetAll(ctx, key).Result()
	if err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	entry := filterFields(key, data)
	if entry == nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
		return nil, nil
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
	return entry, nil
}

// GetAllBatch retrieves every field of several entries in one pipelined
// round trip. The result is index-aligned with keys, nil per miss.
func (h *Hashes) GetAllBatch(ctx context.Context, keys []string) ([]map[string]json.RawMessage, error) {
	if len(keys) == 0 {
		return nil, nil
	}

	pipe := h.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(keys))
	for i, key := range keys {
		cmds[i] = pipe.HGetAll(ctx, key)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusError).Inc()
		return nil, fmt.Errorf("redis pipeline hgetall: %w", err)
	}

	out := make([]map[string]json.RawMessage, len(keys))
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}
		if entry := filterFields(keys[i], data); entry != nil {
			out[i] = entry
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusHit).Inc()
		} else {
			metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpGet, metrics.CacheStatusMiss).Inc()
		}
	}

	return out, nil
}

// SetFieldsBatch repopulates several entries in one pipelined round trip.
func (h *Hashes) SetFieldsBatch(ctx context.Context, writes []HashWrite) error {
	if len(writes) == 0 {
		return nil
	}

	pipe := h.client.Pipeline()
	for _, w := range writes {
		encoded, err := encodeFields(w.Fields)
		if err != nil {
			return err
		}
		pipe.HSet(ctx, w.Key, encoded)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis pipeline hset: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpSet, metrics.CacheStatusSuccess).Inc()
	return nil
}

// DeleteField removes one field. Deleting an absent field is a no-op.
func (h *Hashes) DeleteField(ctx context.Context, key, field string) error {
	if err := h.client.HDel(ctx, key, field).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis hdel: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess).Inc()
	return nil
}

// DeleteKey removes the whole entry. Deleting an absent key is a no-op.
func (h *Hashes) DeleteKey(ctx context.Context, key string) error {
	if err := h.client.Del(ctx, key).Err(); err != nil {
		metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusError).Inc()
		return fmt.Errorf("redis del: %w", err)
	}

	metrics.CacheOperationsTotal.WithLabelValues(metrics.CacheOpDelete, metrics.CacheStatusSuccess).Inc()
	return nil
}

// filterFields drops empty and corrupt stored values. Returns nil when
// nothing survives.
func filterFields(key string, data map[string]string) map[string]json.RawMessage {
	entry := make(map[string]json.RawMessage, len(data))
	for field, raw := range data {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if !json.Valid([]byte(raw)) {
			slog.Warn("skipping corrupt hash field",
				"key", key,
				"field", field,
			)
			continue
		}
		entry[field] = json.RawMessage(raw)
	}

	if len(entry) == 0 {
		return nil
	}
	return entry
}

func encodeFields(fields map[string]any) (map[string]any, error) {
	encoded := make(map[string]any, len(fields))
	for field, value := range fields {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("serialize hash field %q: %w", field, err)
		}
		encoded[field] = string(data)
	}
	return encoded, nil
}
