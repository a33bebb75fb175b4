package state

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/verte-zerg/coinsplit/internal/achievement"
	"github.com/verte-zerg/coinsplit/internal/calculator"
	"github.com/verte-zerg/coinsplit/internal/i18n"
	"github.com/verte-zerg/coinsplit/internal/model"
)

// Options configures an App.
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
	// Translator localizes achievement text and participant labels. Defaults
	// to the embedded string tables.
	Translator *i18n.Manager
}

// App wires the stores, the calculator and the achievement evaluator.
// Methods are serialized by an internal lock.
type App struct {
	mu        sync.Mutex
	log       *slog.Logger
	now       func() time.Time
	tr        *i18n.Manager
	evaluator *achievement.Evaluator

	history  *HistoryStore
	profile  *ProfileStore
	settings *SettingsStore

	observers []func(model.AppSettings)
}

// AddResult is the state after a split was added.
type AddResult struct {
	Split    model.Split
	Profile  model.UserProfile
	Unlocked []model.Achievement
}

// New loads all stores from kv.
func New(ctx context.Context, kv KV, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Translator == nil {
		opts.Translator = i18n.MustNewManager(string(model.LangRU))
	}
	a := &App{
		log:       opts.Logger,
		now:       opts.Now,
		tr:        opts.Translator,
		evaluator: achievement.NewEvaluator(opts.Translator.AllValues("split.unnamed")...),
	}
	a.evaluator.Now = opts.Now
	a.settings = LoadSettingsStore(ctx, kv, a.log)
	a.history = LoadHistoryStore(ctx, kv, a.log)
	a.profile = LoadProfileStore(ctx, kv, a.log, a.catalog(a.settings.Settings().Language))
	return a
}

func (a *App) catalog(lang model.Language) []model.Achievement {
	return achievement.Catalog(a.tr, string(lang))
}

// Calculator returns a calculator that labels participants in the current
// language and stamps splits with the app clock.
func (a *App) Calculator() *calculator.Calculator {
	a.mu.Lock()
	lang := string(a.settings.Settings().Language)
	a.mu.Unlock()
	c := calculator.New()
	c.Now = a.now
	c.Label = func(i int) string {
		return a.tr.Translatef(lang, "participant.label", i)
	}
	return c
}

// Compute builds a split without saving it.
func (a *App) Compute(in calculator.Input) model.Split {
	return a.Calculator().Compute(in)
}

// AddSplit saves split at the front of the history, bumps the lifetime
// counters and unlocks achievements the split earns.
func (a *App) AddSplit(ctx context.Context, split model.Split) AddResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.history.Add(ctx, split)
	a.profile.RecordSplit(ctx, split.TotalAmount)

	profile, unlocked := a.evaluator.Evaluate(split, a.profile.Profile(), a.history.Len())
	if len(unlocked) > 0 {
		a.profile.SetAchievements(ctx, profile.Achievements)
		for _, u := range unlocked {
			a.log.Info("achievement unlocked", "id", u.ID)
		}
	}
	return AddResult{Split: split.Clone(), Profile: a.profile.Profile(), Unlocked: unlocked}
}

// DeleteSplit removes a split by id. Lifetime counters are kept.
func (a *App) DeleteSplit(ctx context.Context, id string) []model.Split {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.history.Delete(ctx, id) {
		a.log.Debug("split not found", "id", id)
	}
	return a.history.List()
}

// DeleteAllSplits clears the history. Lifetime counters are kept.
func (a *App) DeleteAllSplits(ctx context.Context) []model.Split {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history.Clear(ctx)
	return a.history.List()
}

// UpdateProfile applies profile edits.
func (a *App) UpdateProfile(ctx context.Context, profile model.UserProfile) model.UserProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile.Replace(ctx, profile)
}

// UpdateSettings stores settings, relocalizes achievement text and notifies
// observers.
func (a *App) UpdateSettings(ctx context.Context, settings model.AppSettings) model.AppSettings {
	a.mu.Lock()
	next := a.settings.Replace(ctx, settings)
	a.profile.Refresh(ctx, a.catalog(next.Language))
	observers := append(([]func(model.AppSettings))(nil), a.observers...)
	a.mu.Unlock()

	for _, fn := range observers {
		fn(next)
	}
	return next
}

// OnSettingsChange registers fn to run after every settings update.
func (a *App) OnSettingsChange(fn func(model.AppSettings)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.observers = append(a.observers, fn)
}

// Splits returns the saved splits, newest first.
func (a *App) Splits() []model.Split {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history.List()
}

// Split returns a saved split by id.
func (a *App) Split(id string) (model.Split, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.history.Get(id)
}

// Profile returns the current profile.
func (a *App) Profile() model.UserProfile {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.profile.Profile()
}

// Settings returns the current settings.
func (a *App) Settings() model.AppSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings.Settings()
}
