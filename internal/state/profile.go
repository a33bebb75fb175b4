package state

import (
	"context"
	"log/slog"
	"strings"

	"github.com/verte-zerg/coinsplit/internal/achievement"
	"github.com/verte-zerg/coinsplit/internal/model"
	"github.com/verte-zerg/coinsplit/internal/store"
)

// DefaultProfile returns a fresh profile holding catalog.
func DefaultProfile(catalog []model.Achievement) model.UserProfile {
	return model.UserProfile{
		Name:         model.DefaultProfileName,
		Avatar:       model.DefaultAvatar,
		Achievements: achievement.Merge(nil, catalog),
	}
}

// ProfileStore owns the single user profile.
type ProfileStore struct {
	kv      KV
	log     *slog.Logger
	profile model.UserProfile
}

// LoadProfileStore reads the profile and merges its achievements with
// catalog. An absent or unreadable record starts a default profile. The
// merged profile is written back.
func LoadProfileStore(ctx context.Context, kv KV, log *slog.Logger, catalog []model.Achievement) *ProfileStore {
	p := &ProfileStore{kv: kv, log: log}
	var stored model.UserProfile
	if loadJSON(ctx, kv, log, store.KeyProfile, &stored) {
		stored.Achievements = achievement.Merge(stored.Achievements, catalog)
		p.profile = normalizeProfile(stored)
	} else {
		p.profile = DefaultProfile(catalog)
	}
	p.save(ctx)
	return p
}

// Profile returns a copy of the profile.
func (p *ProfileStore) Profile() model.UserProfile {
	return p.profile.Clone()
}

// RecordSplit bumps the lifetime counters and persists.
func (p *ProfileStore) RecordSplit(ctx context.Context, total float64) {
	p.profile.TotalSplits++
	if total > 0 {
		p.profile.TotalAmount += total
	}
	p.save(ctx)
}

// SetAchievements stores evaluated achievement state and persists once.
func (p *ProfileStore) SetAchievements(ctx context.Context, achievements []model.Achievement) {
	p.profile.Achievements = model.UserProfile{Achievements: achievements}.Clone().Achievements
	p.save(ctx)
}

// Replace applies an edited profile. Name and avatar are taken as given,
// blank values fall back to defaults. Counters never go below the stored
// ones and achievement state stays with the store.
func (p *ProfileStore) Replace(ctx context.Context, edited model.UserProfile) model.UserProfile {
	next := p.profile.Clone()
	next.Name = edited.Name
	next.Avatar = edited.Avatar
	if edited.TotalSplits > next.TotalSplits {
		next.TotalSplits = edited.TotalSplits
	}
	if edited.TotalAmount > next.TotalAmount {
		next.TotalAmount = edited.TotalAmount
	}
	p.profile = normalizeProfile(next)
	p.save(ctx)
	return p.Profile()
}

// Refresh re-merges achievements with a newly localized catalog and persists.
func (p *ProfileStore) Refresh(ctx context.Context, catalog []model.Achievement) {
	p.profile.Achievements = achievement.Merge(p.profile.Achievements, catalog)
	p.save(ctx)
}

func (p *ProfileStore) save(ctx context.Context) {
	saveJSON(ctx, p.kv, p.log, store.KeyProfile, p.profile)
}

func normalizeProfile(profile model.UserProfile) model.UserProfile {
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.Name == "" {
		profile.Name = model.DefaultProfileName
	}
	profile.Avatar = strings.TrimSpace(profile.Avatar)
	if profile.Avatar == "" {
		profile.Avatar = model.DefaultAvatar
	}
	if profile.TotalSplits < 0 {
		profile.TotalSplits = 0
	}
	if profile.TotalAmount < 0 {
		profile.TotalAmount = 0
	}
	return profile
}
