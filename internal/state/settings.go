package state

import (
	"context"
	"log/slog"

	"github.com/verte-zerg/coinsplit/internal/model"
	"github.com/verte-zerg/coinsplit/internal/store"
)

// SettingsStore owns the user preferences.
type SettingsStore struct {
	kv       KV
	log      *slog.Logger
	settings model.AppSettings
}

// LoadSettingsStore reads the settings. An absent or unreadable record, or
// one with unknown values, yields the defaults.
func LoadSettingsStore(ctx context.Context, kv KV, log *slog.Logger) *SettingsStore {
	s := &SettingsStore{kv: kv, log: log, settings: model.DefaultSettings()}
	var stored model.AppSettings
	if loadJSON(ctx, kv, log, store.KeySettings, &stored) {
		if stored.Valid() {
			s.settings = stored
		} else {
			log.Warn("ignoring invalid settings", "settings", stored)
		}
	}
	return s
}

// Settings returns the current settings.
func (s *SettingsStore) Settings() model.AppSettings {
	return s.settings
}

// Replace stores next and persists. Fields with unknown values keep their
// current value.
func (s *SettingsStore) Replace(ctx context.Context, next model.AppSettings) model.AppSettings {
	if !next.Language.Valid() {
		next.Language = s.settings.Language
	}
	if !next.Theme.Valid() {
		next.Theme = s.settings.Theme
	}
	if !next.TextSize.Valid() {
		next.TextSize = s.settings.TextSize
	}
	s.settings = next
	saveJSON(ctx, s.kv, s.log, store.KeySettings, s.settings)
	return s.settings
}
