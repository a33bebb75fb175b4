package achievement

import (
	"testing"
	"time"

	"github.com/verte-zerg/coinsplit/internal/model"
)

type keyTranslator struct{}

func (keyTranslator) Translate(language string, key string) string {
	return language + ":" + key
}

func freshProfile() model.UserProfile {
	return model.UserProfile{Name: "User", Achievements: Catalog(keyTranslator{}, "en")}
}

func equalSplit(n int, tip float64) model.Split {
	s := model.Split{Name: model.DefaultSplitName, Mode: model.ModeEqual, BillAmount: 1000, TipPercentage: tip}
	s.TipAmount = s.BillAmount * tip / 100
	s.TotalAmount = s.BillAmount + s.TipAmount
	s.Participants = make([]model.Participant, n)
	return s
}

func unlockedIDs(list []model.Achievement) map[string]bool {
	out := map[string]bool{}
	for _, a := range list {
		out[a.ID] = true
	}
	return out
}

func fixedEvaluator(at time.Time) *Evaluator {
	e := NewEvaluator("Безымянный расчёт")
	e.Now = func() time.Time { return at }
	return e
}

func TestCatalogOrderAndText(t *testing.T) {
	want := []string{
		"first_split", "fair_split", "mathematician", "generous", "historian",
		"archivist", "flexible", "precise", "organizer", "visualizer",
		"repeater", "financial_guru", "big_company", "economist", "quick_calc",
		"tip_master", "collector", "expert", "legend", "master",
	}
	ids := IDs()
	if len(ids) != len(want) {
		t.Fatalf("expected %d achievements, got %d", len(want), len(ids))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("position %d: got %s want %s", i, ids[i], want[i])
		}
	}
	cat := Catalog(keyTranslator{}, "de")
	if cat[0].Title != "de:achievement.first_split" || cat[0].Description != "de:achievement.first_split_desc" {
		t.Fatalf("unexpected localized text: %+v", cat[0])
	}
	for _, a := range cat {
		if a.Unlocked || a.UnlockedAt != nil || a.Icon == "" {
			t.Fatalf("catalog entry should be locked with icon: %+v", a)
		}
	}
}

func TestEvaluateFirstEqualSplit(t *testing.T) {
	p := freshProfile()
	p.TotalSplits = 1
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	out, unlocked := fixedEvaluator(at).Evaluate(equalSplit(4, 10), p, 1)

	got := unlockedIDs(unlocked)
	for _, id := range []string{"first_split", "fair_split", "historian", "visualizer"} {
		if !got[id] {
			t.Fatalf("expected %s unlocked, got %v", id, got)
		}
	}
	for _, id := range []string{"mathematician", "flexible", "organizer", "archivist", "precise", "generous", "economist"} {
		if got[id] {
			t.Fatalf("did not expect %s unlocked", id)
		}
	}
	if out.UnlockedCount() != len(unlocked) {
		t.Fatalf("profile count %d, unlocked %d", out.UnlockedCount(), len(unlocked))
	}
	for _, a := range unlocked {
		if a.UnlockedAt == nil || !a.UnlockedAt.Equal(at) {
			t.Fatalf("expected stamp %v, got %v", at, a.UnlockedAt)
		}
	}
	if p.UnlockedCount() != 0 {
		t.Fatalf("input profile must not be modified")
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	p := freshProfile()
	p.TotalSplits = 1
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, _ = fixedEvaluator(first).Evaluate(equalSplit(2, 0), p, 1)

	later := first.Add(48 * time.Hour)
	again, unlocked := fixedEvaluator(later).Evaluate(equalSplit(2, 0), p, 1)
	if len(unlocked) != 0 {
		t.Fatalf("expected nothing new, got %v", unlockedIDs(unlocked))
	}
	for i, a := range again.Achievements {
		if a.Unlocked && !a.UnlockedAt.Equal(*p.Achievements[i].UnlockedAt) {
			t.Fatalf("%s re-stamped", a.ID)
		}
	}
}

func TestEvaluateRules(t *testing.T) {
	cases := []struct {
		name    string
		split   model.Split
		total   int
		history int
		want    string
		notWant string
	}{
		{name: "percentage", split: model.Split{Mode: model.ModePercentage}, want: "mathematician", notWant: "fair_split"},
		{name: "manual", split: model.Split{Mode: model.ModeManual}, want: "flexible"},
		{name: "generous", split: model.Split{TipPercentage: 15.5}, want: "generous"},
		{name: "not generous", split: model.Split{TipPercentage: 15}, notWant: "generous"},
		{name: "tip master", split: model.Split{TipPercentage: 20}, want: "tip_master"},
		{name: "economist", split: model.Split{}, want: "economist"},
		{name: "archivist", split: model.Split{TipPercentage: 5}, history: 10, want: "archivist"},
		{name: "repeater", split: model.Split{TipPercentage: 5}, history: 2, want: "repeater"},
		{name: "not repeater", split: model.Split{TipPercentage: 5}, history: 1, notWant: "repeater"},
		{name: "expert", total: 3, want: "expert", notWant: "financial_guru"},
		{name: "guru", total: 50, want: "financial_guru", notWant: "collector"},
		{name: "collector", total: 100, want: "collector", notWant: "legend"},
		{name: "legend", total: 500, want: "legend", notWant: "master"},
		{name: "master", total: 1000, want: "master"},
		{name: "big company", split: equalSplit(8, 10), want: "big_company", notWant: "quick_calc"},
		{name: "quick calc", split: equalSplit(2, 10), want: "quick_calc", notWant: "visualizer"},
		{name: "organizer", split: model.Split{Name: "Pizza night"}, want: "organizer"},
		{name: "default name", split: model.Split{Name: model.DefaultSplitName}, notWant: "organizer"},
		{name: "localized default name", split: model.Split{Name: "Безымянный расчёт"}, notWant: "organizer"},
		{name: "precise", split: model.Split{BillAmount: 10.5, TipAmount: 1.575, TotalAmount: 12.075}, want: "precise"},
		{name: "not precise", split: model.Split{BillAmount: 1000, TipAmount: 100, TotalAmount: 1100}, notWant: "precise"},
	}
	for _, tc := range cases {
		p := freshProfile()
		p.TotalSplits = tc.total
		_, unlocked := fixedEvaluator(time.Now()).Evaluate(tc.split, p, tc.history)
		got := unlockedIDs(unlocked)
		if tc.want != "" && !got[tc.want] {
			t.Fatalf("%s: expected %s unlocked, got %v", tc.name, tc.want, got)
		}
		if tc.notWant != "" && got[tc.notWant] {
			t.Fatalf("%s: did not expect %s", tc.name, tc.notWant)
		}
	}
}

func TestEvaluateIgnoresUnknownIDs(t *testing.T) {
	p := model.UserProfile{TotalSplits: 5, Achievements: []model.Achievement{{ID: "retired"}}}
	out, unlocked := NewEvaluator().Evaluate(model.Split{}, p, 5)
	if len(unlocked) != 0 || out.Achievements[0].Unlocked {
		t.Fatalf("unknown achievement must stay locked")
	}
}

func TestMergeFollowsCatalog(t *testing.T) {
	at := time.Date(2023, 7, 9, 8, 0, 0, 0, time.UTC)
	existing := []model.Achievement{
		{ID: "retired", Unlocked: true, UnlockedAt: &at},
		{ID: "historian", Title: "old", Unlocked: true, UnlockedAt: &at},
		{ID: "first_split", Unlocked: true, UnlockedAt: &at},
	}
	catalog := Catalog(keyTranslator{}, "en")
	merged := Merge(existing, catalog)

	if len(merged) != len(catalog) {
		t.Fatalf("expected %d entries, got %d", len(catalog), len(merged))
	}
	for i := range catalog {
		if merged[i].ID != catalog[i].ID {
			t.Fatalf("position %d: got %s want %s", i, merged[i].ID, catalog[i].ID)
		}
	}
	byID := map[string]model.Achievement{}
	for _, a := range merged {
		byID[a.ID] = a
	}
	h := byID["historian"]
	if !h.Unlocked || h.UnlockedAt == nil || !h.UnlockedAt.Equal(at) {
		t.Fatalf("historian state lost: %+v", h)
	}
	if h.Title != "en:achievement.historian" {
		t.Fatalf("expected catalog title, got %q", h.Title)
	}
	if _, ok := byID["retired"]; ok {
		t.Fatalf("retired achievement should be dropped")
	}
	if byID["archivist"].Unlocked {
		t.Fatalf("new achievement should be locked")
	}
	want := at
	*existing[1].UnlockedAt = at.Add(time.Hour)
	if !byID["historian"].UnlockedAt.Equal(want) {
		t.Fatalf("merge must copy unlock dates")
	}
}

func TestMergeDuplicateIDsPreferUnlocked(t *testing.T) {
	existing := []model.Achievement{
		{ID: "expert"},
		{ID: "expert", Unlocked: true},
	}
	merged := Merge(existing, Catalog(keyTranslator{}, "en"))
	for _, a := range merged {
		if a.ID == "expert" && !a.Unlocked {
			t.Fatalf("expected unlocked duplicate to win")
		}
	}
}
