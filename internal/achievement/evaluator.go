package achievement

import (
	"strings"
	"time"

	"github.com/verte-zerg/coinsplit/internal/model"
)

// Evaluator unlocks achievements after a split is recorded.
type Evaluator struct {
	Now func() time.Time

	rules        map[string]Rule
	placeholders map[string]bool
}

// NewEvaluator returns an evaluator. placeholders are extra split names that
// count as unnamed, typically the localized default names.
func NewEvaluator(placeholders ...string) *Evaluator {
	e := &Evaluator{
		Now:          time.Now,
		rules:        make(map[string]Rule, len(definitions)),
		placeholders: map[string]bool{},
	}
	for _, d := range definitions {
		e.rules[d.ID] = d.Rule
	}
	for _, p := range placeholders {
		if p = strings.TrimSpace(p); p != "" {
			e.placeholders[p] = true
		}
	}
	return e
}

// Evaluate checks every locked achievement of the profile against the split
// and the counters. It returns a copy of the profile with newly met
// achievements unlocked and stamped, plus those achievements in profile
// order. Unlocked achievements and ids outside the catalog are left as is.
func (e *Evaluator) Evaluate(split model.Split, profile model.UserProfile, historyCount int) (model.UserProfile, []model.Achievement) {
	out := profile.Clone()
	facts := Facts{
		Split:        split,
		TotalSplits:  profile.TotalSplits,
		HistoryCount: historyCount,
		placeholders: e.placeholders,
	}

	var unlocked []model.Achievement
	var now time.Time
	for i := range out.Achievements {
		a := &out.Achievements[i]
		if a.Unlocked {
			continue
		}
		rule, ok := e.rules[a.ID]
		if !ok || !rule(facts) {
			continue
		}
		if now.IsZero() {
			now = e.Now()
		}
		stamp := now
		a.Unlocked = true
		a.UnlockedAt = &stamp
		unlocked = append(unlocked, *a)
	}
	return out, unlocked
}
