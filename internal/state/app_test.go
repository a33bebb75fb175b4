package state

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/coinsplit/internal/calculator"
	"github.com/verte-zerg/coinsplit/internal/model"
	"github.com/verte-zerg/coinsplit/internal/store"
)

type memKV struct {
	data    map[string][]byte
	puts    map[string]int
	failPut bool
	failGet bool
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, puts: map[string]int{}}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.failGet {
		return nil, false, errors.New("read failed")
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key string, value []byte) error {
	if m.failPut {
		return errors.New("disk full")
	}
	m.puts[key]++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

var testNow = time.Date(2024, 6, 1, 19, 30, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, kv KV) *App {
	t.Helper()
	return New(context.Background(), kv, Options{
		Logger: quietLogger(),
		Now:    func() time.Time { return testNow },
	})
}

func dinner(app *App) model.Split {
	return app.Compute(calculator.Input{BillAmount: "1000", Participants: 4, TipPercentage: 10, Mode: model.ModeEqual})
}

func isUnlocked(p model.UserProfile, id string) bool {
	for _, a := range p.Achievements {
		if a.ID == id {
			return a.Unlocked
		}
	}
	return false
}

func TestNewStartsWithDefaults(t *testing.T) {
	kv := newMemKV()
	app := newTestApp(t, kv)
	p := app.Profile()
	if p.Name != model.DefaultProfileName || p.Avatar != model.DefaultAvatar {
		t.Fatalf("unexpected default profile %+v", p)
	}
	if len(p.Achievements) != 20 || p.UnlockedCount() != 0 {
		t.Fatalf("expected 20 locked achievements, got %d/%d", p.UnlockedCount(), len(p.Achievements))
	}
	if p.Achievements[0].Title != "Первый шаг" {
		t.Fatalf("expected primary locale titles, got %q", p.Achievements[0].Title)
	}
	if app.Settings() != model.DefaultSettings() {
		t.Fatalf("unexpected default settings %+v", app.Settings())
	}
	if len(app.Splits()) != 0 {
		t.Fatalf("expected empty history")
	}
	if kv.puts[store.KeyProfile] != 1 {
		t.Fatalf("expected merged profile written on load, got %d writes", kv.puts[store.KeyProfile])
	}
}

func TestAddSplitScenario(t *testing.T) {
	app := newTestApp(t, newMemKV())
	split := dinner(app)
	if split.TipAmount != 100 || split.TotalAmount != 1100 || split.AmountPerPerson() != 275 {
		t.Fatalf("unexpected split %+v", split)
	}
	if split.Participants[0].Name != "Участник #1" {
		t.Fatalf("expected localized label, got %q", split.Participants[0].Name)
	}
	if !split.CreatedAt.Equal(testNow) {
		t.Fatalf("expected app clock, got %v", split.CreatedAt)
	}

	res := app.AddSplit(context.Background(), split)
	if !isUnlocked(res.Profile, "first_split") || !isUnlocked(res.Profile, "fair_split") {
		t.Fatalf("expected first_split and fair_split unlocked")
	}
	if isUnlocked(res.Profile, "mathematician") {
		t.Fatalf("mathematician must stay locked")
	}
	if res.Profile.TotalSplits != 1 || res.Profile.TotalAmount != 1100 {
		t.Fatalf("unexpected counters %d %v", res.Profile.TotalSplits, res.Profile.TotalAmount)
	}
	if len(res.Unlocked) != res.Profile.UnlockedCount() {
		t.Fatalf("unlocked list and profile disagree")
	}
	for _, a := range res.Unlocked {
		if a.UnlockedAt == nil || !a.UnlockedAt.Equal(testNow) {
			t.Fatalf("%s not stamped with app clock", a.ID)
		}
	}
}

func TestAddSplitOrdersNewestFirst(t *testing.T) {
	app := newTestApp(t, newMemKV())
	ctx := context.Background()
	first := app.Compute(calculator.Input{BillAmount: "10", Participants: 2, Name: "first"})
	second := app.Compute(calculator.Input{BillAmount: "20", Participants: 2, Name: "second"})
	app.AddSplit(ctx, first)
	app.AddSplit(ctx, second)
	splits := app.Splits()
	if len(splits) != 2 || splits[0].Name != "second" || splits[1].Name != "first" {
		t.Fatalf("unexpected order %v", splits)
	}
	if got, ok := app.Split(first.ID); !ok || got.Name != "first" {
		t.Fatalf("lookup by id failed")
	}
}

func TestTenSplitsUnlockArchivist(t *testing.T) {
	app := newTestApp(t, newMemKV())
	ctx := context.Background()
	for i := 1; i <= 10; i++ {
		res := app.AddSplit(ctx, dinner(app))
		if i == 1 && !isUnlocked(res.Profile, "historian") {
			t.Fatalf("historian should unlock on the first add")
		}
		if i < 10 && isUnlocked(res.Profile, "archivist") {
			t.Fatalf("archivist unlocked early at %d", i)
		}
		if i == 10 && !isUnlocked(res.Profile, "archivist") {
			t.Fatalf("archivist should unlock on the tenth add")
		}
	}
}

func TestProfilePersistedOnceForUnlocks(t *testing.T) {
	kv := newMemKV()
	app := newTestApp(t, kv)
	ctx := context.Background()
	wantUnlock := []bool{true, true, true, false}
	for i, want := range wantUnlock {
		before := kv.puts[store.KeyProfile]
		res := app.AddSplit(ctx, dinner(app))
		writes := kv.puts[store.KeyProfile] - before
		if want != (len(res.Unlocked) > 0) {
			t.Fatalf("add %d: unexpected unlocks %v", i+1, res.Unlocked)
		}
		expected := 1
		if want {
			expected = 2
		}
		if writes != expected {
			t.Fatalf("add %d: expected %d profile writes, got %d", i+1, expected, writes)
		}
	}
}

func TestDeletesKeepCounters(t *testing.T) {
	app := newTestApp(t, newMemKV())
	ctx := context.Background()
	a := app.AddSplit(ctx, dinner(app)).Split
	app.AddSplit(ctx, dinner(app))
	app.AddSplit(ctx, dinner(app))

	left := app.DeleteSplit(ctx, a.ID)
	if len(left) != 2 {
		t.Fatalf("expected 2 splits left, got %d", len(left))
	}
	if left := app.DeleteSplit(ctx, "missing"); len(left) != 2 {
		t.Fatalf("deleting a missing id must be a no-op")
	}
	if left := app.DeleteAllSplits(ctx); len(left) != 0 {
		t.Fatalf("expected empty history")
	}
	p := app.Profile()
	if p.TotalSplits != 3 || p.TotalAmount != 3300 {
		t.Fatalf("counters changed: %d %v", p.TotalSplits, p.TotalAmount)
	}
	if len(app.Splits()) != 0 {
		t.Fatalf("history should be empty")
	}
}

func TestUpdateProfile(t *testing.T) {
	app := newTestApp(t, newMemKV())
	ctx := context.Background()
	app.AddSplit(ctx, dinner(app))

	edited := app.Profile()
	edited.Name = "  "
	edited.Avatar = "crown.fill"
	edited.TotalSplits = 0
	edited.TotalAmount = 0
	edited.Achievements = nil
	got := app.UpdateProfile(ctx, edited)
	if got.Name != model.DefaultProfileName || got.Avatar != "crown.fill" {
		t.Fatalf("unexpected profile %+v", got)
	}
	if got.TotalSplits != 1 || got.TotalAmount != 1100 {
		t.Fatalf("counters must not decrease: %d %v", got.TotalSplits, got.TotalAmount)
	}
	if !isUnlocked(got, "first_split") {
		t.Fatalf("achievement state must be kept")
	}
}

func TestUpdateSettingsRelocalizes(t *testing.T) {
	app := newTestApp(t, newMemKV())
	ctx := context.Background()
	app.AddSplit(ctx, dinner(app))
	before := app.Profile()

	var seen []model.AppSettings
	app.OnSettingsChange(func(s model.AppSettings) { seen = append(seen, s) })

	got := app.UpdateSettings(ctx, model.AppSettings{Language: model.LangEN, Theme: model.ThemeDark, TextSize: "huge"})
	if got.Language != model.LangEN || got.Theme != model.ThemeDark || got.TextSize != model.TextMedium {
		t.Fatalf("unexpected settings %+v", got)
	}
	if len(seen) != 1 || seen[0] != got {
		t.Fatalf("observer not notified: %v", seen)
	}

	after := app.Profile()
	if after.Achievements[0].Title != "First Step" {
		t.Fatalf("expected English title, got %q", after.Achievements[0].Title)
	}
	if after.UnlockedCount() != before.UnlockedCount() {
		t.Fatalf("unlock state changed: %d -> %d", before.UnlockedCount(), after.UnlockedCount())
	}
	split := dinner(app)
	if split.Participants[0].Name != "Participant #1" {
		t.Fatalf("expected English label, got %q", split.Participants[0].Name)
	}
}

func TestStateSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coinsplit.db")
	ctx := context.Background()

	st, err := store.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	app := newTestApp(t, st)
	split := dinner(app)
	app.AddSplit(ctx, split)
	app.UpdateSettings(ctx, model.AppSettings{Language: model.LangDE, Theme: model.ThemeAuto, TextSize: model.TextLarge})
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	st, err = store.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close: %v", err)
		}
	})
	app = newTestApp(t, st)
	splits := app.Splits()
	if len(splits) != 1 || splits[0].ID != split.ID || splits[0].TotalAmount != 1100 {
		t.Fatalf("history not restored: %+v", splits)
	}
	if len(splits[0].Participants) != 4 {
		t.Fatalf("participants not restored")
	}
	if app.Settings().Language != model.LangDE || app.Settings().TextSize != model.TextLarge {
		t.Fatalf("settings not restored: %+v", app.Settings())
	}
	p := app.Profile()
	if p.TotalSplits != 1 || !isUnlocked(p, "first_split") {
		t.Fatalf("profile not restored: %+v", p)
	}
	if p.Achievements[0].Title != "Erster Schritt" {
		t.Fatalf("expected German titles after reload, got %q", p.Achievements[0].Title)
	}
	for _, a := range p.Achievements {
		if a.ID == "first_split" && (a.UnlockedAt == nil || !a.UnlockedAt.Equal(testNow)) {
			t.Fatalf("unlock date not restored: %v", a.UnlockedAt)
		}
	}
}

func TestCorruptRecordsFallBack(t *testing.T) {
	kv := newMemKV()
	kv.data[store.KeySplits] = []byte("not json")
	kv.data[store.KeyProfile] = []byte("{")
	kv.data[store.KeySettings] = []byte(`{"language":"fr","theme":"light","textSize":"medium"}`)
	app := newTestApp(t, kv)
	if len(app.Splits()) != 0 {
		t.Fatalf("expected empty history")
	}
	if app.Profile().Name != model.DefaultProfileName {
		t.Fatalf("expected default profile")
	}
	if app.Settings() != model.DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", app.Settings())
	}
}

func TestStoredProfileMigratesCatalog(t *testing.T) {
	kv := newMemKV()
	kv.data[store.KeyProfile] = []byte(`{"name":"Alex","avatar":"star.fill","totalSplits":7,"totalAmount":420,
		"achievements":[{"id":"expert","title":"old","isUnlocked":true,"unlockedDate":"2023-01-02T03:04:05Z"},
		{"id":"lightning","title":"gone","isUnlocked":true}]}`)
	app := newTestApp(t, kv)
	p := app.Profile()
	if p.Name != "Alex" || p.TotalSplits != 7 || p.TotalAmount != 420 {
		t.Fatalf("unexpected profile %+v", p)
	}
	if len(p.Achievements) != 20 || p.UnlockedCount() != 1 || !isUnlocked(p, "expert") {
		t.Fatalf("unexpected achievements after migration: %d unlocked", p.UnlockedCount())
	}
}

func TestWriteFailuresAreSwallowed(t *testing.T) {
	kv := newMemKV()
	kv.failPut = true
	app := newTestApp(t, kv)
	res := app.AddSplit(context.Background(), dinner(app))
	if res.Profile.TotalSplits != 1 || len(app.Splits()) != 1 {
		t.Fatalf("in-memory state should advance without storage")
	}
	if len(kv.data) != 0 {
		t.Fatalf("nothing should have been written")
	}
}

func TestReadFailuresFallBack(t *testing.T) {
	kv := newMemKV()
	kv.failGet = true
	app := newTestApp(t, kv)
	if app.Profile().TotalSplits != 0 || app.Settings() != model.DefaultSettings() {
		t.Fatalf("expected defaults on read failure")
	}
}
