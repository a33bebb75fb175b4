// Package state keeps the write-through stores for history, profile and
// settings, and the App that coordinates them.
package state

import (
	"context"
	"encoding/json"
	"log/slog"
)

// KV is the persistence the stores write through to.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// loadJSON decodes the record under key into dst. It reports false when the
// record is absent or unreadable; failures are logged, never returned.
func loadJSON(ctx context.Context, kv KV, log *slog.Logger, key string, dst any) bool {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		log.Warn("failed to read record", "key", key, "err", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Warn("discarding unreadable record", "key", key, "err", err)
		return false
	}
	return true
}

// saveJSON persists v under key. Failures are logged and dropped; the next
// successful write catches the record up.
func saveJSON(ctx context.Context, kv KV, log *slog.Logger, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Warn("failed to encode record", "key", key, "err", err)
		return
	}
	if err := kv.Put(ctx, key, data); err != nil {
		log.Warn("failed to write record", "key", key, "err", err)
	}
}
