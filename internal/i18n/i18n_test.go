package i18n

import (
	"sort"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLocaleKeysParity(t *testing.T) {
	m := MustNewManager("ru")
	base := m.locales["ru"]
	for _, language := range m.SupportedLanguages() {
		if language == "ru" {
			continue
		}
		other := m.locales[language]
		if missing := missingKeys(base, other); len(missing) > 0 {
			t.Errorf("keys missing in %s locale: %s", language, strings.Join(missing, ", "))
		}
		if missing := missingKeys(other, base); len(missing) > 0 {
			t.Errorf("keys missing in ru locale: %s", strings.Join(missing, ", "))
		}
	}
}

func TestSupportedLanguages(t *testing.T) {
	got := strings.Join(MustNewManager("ru").SupportedLanguages(), ",")
	if got != "de,en,es,ru" {
		t.Fatalf("unexpected languages: %s", got)
	}
}

func TestTranslateFallbacks(t *testing.T) {
	m := MustNewManager("ru")
	if got := m.Translate("en", "achievement.first_split"); got != "First Step" {
		t.Fatalf("unexpected en title: %q", got)
	}
	if got := m.Translate("en_US", "achievement.master"); got != "Master" {
		t.Fatalf("expected region tag normalized, got %q", got)
	}
	if got := m.Translate("fr", "achievement.master"); got != "Мастер" {
		t.Fatalf("expected default language fallback, got %q", got)
	}
	if got := m.Translate("en", "missing.key"); got != "missing.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
	if got := m.Translatef("de", "participant.label", 3); got != "Teilnehmer #3" {
		t.Fatalf("unexpected label: %q", got)
	}
}

func TestNewManagerRejectsMissingDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{"a":"b"}`)},
	}
	if _, err := newManagerFS(fsys, "locales", "ru"); err == nil {
		t.Fatalf("expected error for missing default locale")
	}
	if _, err := newManagerFS(fsys, "locales", "en"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewManagerRejectsEmptyLocale(t *testing.T) {
	fsys := fstest.MapFS{
		"locales/en.json": {Data: []byte(`{}`)},
	}
	if _, err := newManagerFS(fsys, "locales", "en"); err == nil {
		t.Fatalf("expected error for empty locale")
	}
}

func missingKeys(source map[string]string, target map[string]string) []string {
	missing := make([]string, 0)
	for key := range source {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
