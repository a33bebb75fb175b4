// Package achievement defines the achievement catalog and its unlock rules.
package achievement

import (
	"strings"

	"github.com/verte-zerg/coinsplit/internal/model"
)

// Facts is what a rule sees when a split is added.
type Facts struct {
	Split        model.Split
	TotalSplits  int
	HistoryCount int

	placeholders map[string]bool
}

// IsPlaceholderName reports whether name is empty or one of the default
// split names.
func (f Facts) IsPlaceholderName(name string) bool {
	name = strings.TrimSpace(name)
	return name == "" || name == model.DefaultSplitName || f.placeholders[name]
}

// Rule decides whether an achievement unlocks.
type Rule func(Facts) bool

// Definition is the code-owned part of an achievement.
type Definition struct {
	ID   string
	Icon string
	Rule Rule
}

// TitleKey is the string table key of the title.
func (d Definition) TitleKey() string {
	return "achievement." + d.ID
}

// DescriptionKey is the string table key of the description.
func (d Definition) DescriptionKey() string {
	return "achievement." + d.ID + "_desc"
}

var definitions = []Definition{
	{ID: "first_split", Icon: "star.fill", Rule: totalAtLeast(1)},
	{ID: "fair_split", Icon: "equal.circle.fill", Rule: func(f Facts) bool {
		return f.Split.Mode == model.ModeEqual && f.Split.ParticipantCount() >= 2
	}},
	{ID: "mathematician", Icon: "percent", Rule: modeIs(model.ModePercentage)},
	{ID: "generous", Icon: "heart.fill", Rule: func(f Facts) bool { return f.Split.TipPercentage > 15 }},
	{ID: "historian", Icon: "clock.fill", Rule: func(f Facts) bool { return f.HistoryCount >= 1 }},
	{ID: "archivist", Icon: "folder.fill", Rule: func(f Facts) bool { return f.HistoryCount >= 10 }},
	{ID: "flexible", Icon: "slider.horizontal.3", Rule: modeIs(model.ModeManual)},
	{ID: "precise", Icon: "bolt.fill", Rule: func(f Facts) bool { return RoundingDiverges(f.Split) }},
	{ID: "organizer", Icon: "textformat", Rule: func(f Facts) bool { return !f.IsPlaceholderName(f.Split.Name) }},
	{ID: "visualizer", Icon: "person.3.fill", Rule: func(f Facts) bool { return f.Split.ParticipantCount() >= 3 }},
	{ID: "repeater", Icon: "arrow.clockwise", Rule: func(f Facts) bool { return f.HistoryCount > 1 }},
	{ID: "financial_guru", Icon: "chart.line.uptrend.xyaxis", Rule: totalAtLeast(50)},
	{ID: "big_company", Icon: "person.3.sequence.fill", Rule: func(f Facts) bool { return f.Split.ParticipantCount() >= 8 }},
	{ID: "economist", Icon: "banknote", Rule: func(f Facts) bool { return f.Split.TipPercentage == 0 }},
	{ID: "quick_calc", Icon: "hare.fill", Rule: func(f Facts) bool { return f.Split.ParticipantCount() <= 2 }},
	{ID: "tip_master", Icon: "gift.fill", Rule: func(f Facts) bool { return f.Split.TipPercentage == 20 }},
	{ID: "collector", Icon: "tray.full.fill", Rule: totalAtLeast(100)},
	{ID: "expert", Icon: "graduationcap.fill", Rule: totalAtLeast(3)},
	{ID: "legend", Icon: "crown.fill", Rule: totalAtLeast(500)},
	{ID: "master", Icon: "trophy.fill", Rule: totalAtLeast(1000)},
}

func totalAtLeast(n int) Rule {
	return func(f Facts) bool { return f.TotalSplits >= n }
}

func modeIs(mode model.SplitMode) Rule {
	return func(f Facts) bool { return f.Split.Mode == mode }
}

// RoundingDiverges reports whether the whole-unit display of the total
// differs from the sum of the whole-unit displays of bill and tip.
func RoundingDiverges(s model.Split) bool {
	return int64(s.TotalAmount) != int64(s.BillAmount)+int64(s.TipAmount)
}

// Definitions returns the catalog in display order.
func Definitions() []Definition {
	return append([]Definition(nil), definitions...)
}

// IDs returns the catalog ids in display order.
func IDs() []string {
	ids := make([]string, len(definitions))
	for i, d := range definitions {
		ids[i] = d.ID
	}
	return ids
}

// Translator resolves display strings.
type Translator interface {
	Translate(language string, key string) string
}

// Catalog returns the locked catalog with text in the given language.
func Catalog(tr Translator, language string) []model.Achievement {
	out := make([]model.Achievement, len(definitions))
	for i, d := range definitions {
		out[i] = model.Achievement{
			ID:          d.ID,
			Title:       tr.Translate(language, d.TitleKey()),
			Description: tr.Translate(language, d.DescriptionKey()),
			Icon:        d.Icon,
		}
	}
	return out
}
