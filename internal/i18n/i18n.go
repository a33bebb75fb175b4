// Package i18n provides embedded per-language string tables.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed locales/*.json
var localeFS embed.FS

// Manager resolves display strings by language and key.
type Manager struct {
	defaultLanguage string
	locales         map[string]map[string]string
	supported       []string
}

// NewManager loads the embedded locales. Lookups in unknown languages fall
// back to defaultLanguage.
func NewManager(defaultLanguage string) (*Manager, error) {
	return newManagerFS(localeFS, "locales", defaultLanguage)
}

// MustNewManager is NewManager for callers that cannot recover from a broken
// build.
func MustNewManager(defaultLanguage string) *Manager {
	m, err := NewManager(defaultLanguage)
	if err != nil {
		panic(err)
	}
	return m
}

func newManagerFS(fsys fs.FS, dir string, defaultLanguage string) (*Manager, error) {
	manager := &Manager{
		locales: map[string]map[string]string{},
	}

	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		language := strings.TrimSuffix(strings.ToLower(entry.Name()), ".json")
		content, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", language, err)
		}
		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", language, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", language)
		}
		manager.locales[language] = messages
		manager.supported = append(manager.supported, language)
	}
	if len(manager.supported) == 0 {
		return nil, fmt.Errorf("no locales found in %s", dir)
	}

	sort.Strings(manager.supported)
	defaultLanguage = normalizeLanguageTag(defaultLanguage)
	if _, ok := manager.locales[defaultLanguage]; !ok {
		return nil, fmt.Errorf("default locale %q missing", defaultLanguage)
	}
	manager.defaultLanguage = defaultLanguage
	return manager, nil
}

// DefaultLanguage returns the fallback language.
func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

// SupportedLanguages returns the loaded languages in sorted order.
func (manager *Manager) SupportedLanguages() []string {
	result := make([]string, len(manager.supported))
	copy(result, manager.supported)
	return result
}

// NormalizeLanguage maps a raw tag such as "en_US" to a supported language.
func (manager *Manager) NormalizeLanguage(raw string) string {
	normalized := normalizeLanguageTag(raw)
	if _, ok := manager.locales[normalized]; ok {
		return normalized
	}
	return manager.defaultLanguage
}

// Translate returns the string for key, falling back to the default language
// and then to the key itself.
func (manager *Manager) Translate(language string, key string) string {
	if value, ok := manager.locales[manager.NormalizeLanguage(language)][key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	if value, ok := manager.locales[manager.defaultLanguage][key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

// Translatef formats the translated string with args.
func (manager *Manager) Translatef(language string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(language, key), args...)
}

// AllValues returns the value of key in every loaded language.
func (manager *Manager) AllValues(key string) []string {
	var out []string
	for _, language := range manager.supported {
		if value, ok := manager.locales[language][key]; ok {
			out = append(out, value)
		}
	}
	return out
}

func normalizeLanguageTag(raw string) string {
	language := strings.ToLower(strings.TrimSpace(raw))
	language = strings.ReplaceAll(language, "_", "-")
	if separator := strings.Index(language, "-"); separator >= 0 {
		language = language[:separator]
	}
	return language
}
