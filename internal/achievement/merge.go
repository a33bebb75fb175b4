package achievement

import "github.com/verte-zerg/coinsplit/internal/model"

// Merge carries unlock state from existing onto catalog by id. The result
// follows catalog order and membership; text and icons come from catalog.
// When existing holds duplicate ids, an unlocked entry wins over a locked one.
func Merge(existing, catalog []model.Achievement) []model.Achievement {
	byID := make(map[string]model.Achievement, len(existing))
	for _, a := range existing {
		if prev, ok := byID[a.ID]; ok && (prev.Unlocked || !a.Unlocked) {
			continue
		}
		byID[a.ID] = a
	}

	merged := make([]model.Achievement, len(catalog))
	for i, tmpl := range catalog {
		merged[i] = tmpl
		old, ok := byID[tmpl.ID]
		if !ok {
			continue
		}
		merged[i].Unlocked = old.Unlocked
		if old.UnlockedAt != nil {
			t := *old.UnlockedAt
			merged[i].UnlockedAt = &t
		}
	}
	return merged
}
