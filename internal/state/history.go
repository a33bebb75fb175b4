package state

import (
	"context"
	"log/slog"

	"github.com/verte-zerg/coinsplit/internal/model"
	"github.com/verte-zerg/coinsplit/internal/store"
)

// HistoryStore owns the saved splits, newest first.
type HistoryStore struct {
	kv     KV
	log    *slog.Logger
	splits []model.Split
}

// LoadHistoryStore reads the saved splits. An absent or unreadable record
// starts an empty history.
func LoadHistoryStore(ctx context.Context, kv KV, log *slog.Logger) *HistoryStore {
	h := &HistoryStore{kv: kv, log: log}
	var splits []model.Split
	if loadJSON(ctx, kv, log, store.KeySplits, &splits) {
		h.splits = splits
	}
	return h
}

// Add inserts split at the front and persists.
func (h *HistoryStore) Add(ctx context.Context, split model.Split) {
	h.splits = append([]model.Split{split.Clone()}, h.splits...)
	h.save(ctx)
}

// Delete removes the split with id. It reports whether one was found; a miss
// writes nothing.
func (h *HistoryStore) Delete(ctx context.Context, id string) bool {
	for i, s := range h.splits {
		if s.ID == id {
			h.splits = append(h.splits[:i:i], h.splits[i+1:]...)
			h.save(ctx)
			return true
		}
	}
	return false
}

// Clear empties the history and persists.
func (h *HistoryStore) Clear(ctx context.Context) {
	h.splits = nil
	h.save(ctx)
}

// Get returns the split with id.
func (h *HistoryStore) Get(id string) (model.Split, bool) {
	for _, s := range h.splits {
		if s.ID == id {
			return s.Clone(), true
		}
	}
	return model.Split{}, false
}

// Len returns the number of saved splits.
func (h *HistoryStore) Len() int {
	return len(h.splits)
}

// List returns a copy of the saved splits, newest first.
func (h *HistoryStore) List() []model.Split {
	out := make([]model.Split, len(h.splits))
	for i, s := range h.splits {
		out[i] = s.Clone()
	}
	return out
}

func (h *HistoryStore) save(ctx context.Context) {
	splits := h.splits
	if splits == nil {
		splits = []model.Split{}
	}
	saveJSON(ctx, h.kv, h.log, store.KeySplits, splits)
}
