// Package model defines shared data structures.
package model

import "time"

// DefaultSplitName is the placeholder name given to splits saved without one.
const DefaultSplitName = "Unnamed calculation"

// DefaultProfileName is used when the profile has no display name.
const DefaultProfileName = "User"

// DefaultAvatar is the avatar tag of a fresh profile.
const DefaultAvatar = "person.fill"

// Avatars lists the selectable avatar tags.
var Avatars = []string{
	"person.fill", "star.fill", "heart.fill", "bolt.fill",
	"flame.fill", "crown.fill", "leaf.fill", "moon.fill",
	"sun.max.fill", "sparkles", "trophy.fill", "shield.fill",
}

// Config defines calculator defaults.
type Config struct {
	Participants int
	TipPct       float64
	Mode         SplitMode
}

// SplitMode selects how the total is divided between participants.
type SplitMode string

// Split modes.
const (
	ModeEqual      SplitMode = "equal"
	ModePercentage SplitMode = "percentage"
	ModeManual     SplitMode = "manual"
)

// SplitModes lists the modes in display order.
var SplitModes = []SplitMode{ModeEqual, ModePercentage, ModeManual}

// Valid reports whether m is a known mode.
func (m SplitMode) Valid() bool {
	switch m {
	case ModeEqual, ModePercentage, ModeManual:
		return true
	}
	return false
}

// ParticipantColor is a cosmetic tag attached to each participant.
type ParticipantColor string

// Participant colors.
const (
	ColorBlue   ParticipantColor = "blue"
	ColorPurple ParticipantColor = "purple"
	ColorPink   ParticipantColor = "pink"
	ColorOrange ParticipantColor = "orange"
	ColorGreen  ParticipantColor = "green"
	ColorRed    ParticipantColor = "red"
	ColorCyan   ParticipantColor = "cyan"
	ColorYellow ParticipantColor = "yellow"
)

// ParticipantColors is the palette participants cycle through.
var ParticipantColors = []ParticipantColor{
	ColorBlue, ColorPurple, ColorPink, ColorOrange,
	ColorGreen, ColorRed, ColorCyan, ColorYellow,
}

// Participant is one person's share within a split.
type Participant struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Amount     float64          `json:"amount"`
	Percentage float64          `json:"percentage"`
	Color      ParticipantColor `json:"color"`
}

// Split is one completed bill division.
type Split struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	CreatedAt     time.Time     `json:"createdAt"`
	TotalAmount   float64       `json:"totalAmount"`
	Participants  []Participant `json:"participants"`
	TipPercentage float64       `json:"tipPercentage"`
	Mode          SplitMode     `json:"splitMode"`
	BillAmount    float64       `json:"billAmount"`
	TipAmount     float64       `json:"tipAmount"`
}

// ParticipantCount returns the number of participants.
func (s Split) ParticipantCount() int {
	return len(s.Participants)
}

// AmountPerPerson returns the even share of the total, or 0 without participants.
func (s Split) AmountPerPerson() float64 {
	if len(s.Participants) == 0 {
		return 0
	}
	return s.TotalAmount / float64(len(s.Participants))
}

// Clone returns a deep copy of the split.
func (s Split) Clone() Split {
	out := s
	if s.Participants != nil {
		out.Participants = append([]Participant(nil), s.Participants...)
	}
	return out
}

// Achievement is an unlockable milestone with its user-owned unlock state.
type Achievement struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon"`
	Unlocked    bool       `json:"isUnlocked"`
	UnlockedAt  *time.Time `json:"unlockedDate,omitempty"`
}

// UserProfile aggregates lifetime statistics and achievement state.
type UserProfile struct {
	Name         string        `json:"name"`
	Avatar       string        `json:"avatar"`
	TotalSplits  int           `json:"totalSplits"`
	TotalAmount  float64       `json:"totalAmount"`
	Achievements []Achievement `json:"achievements"`
}

// UnlockedCount returns how many achievements are unlocked.
func (p UserProfile) UnlockedCount() int {
	n := 0
	for _, a := range p.Achievements {
		if a.Unlocked {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the profile.
func (p UserProfile) Clone() UserProfile {
	out := p
	if p.Achievements != nil {
		out.Achievements = make([]Achievement, len(p.Achievements))
		for i, a := range p.Achievements {
			if a.UnlockedAt != nil {
				t := *a.UnlockedAt
				a.UnlockedAt = &t
			}
			out.Achievements[i] = a
		}
	}
	return out
}

// Language is a supported interface language.
type Language string

// Supported languages. The first is the primary locale.
const (
	LangRU Language = "ru"
	LangEN Language = "en"
	LangES Language = "es"
	LangDE Language = "de"
)

// Languages lists supported languages in display order.
var Languages = []Language{LangRU, LangEN, LangES, LangDE}

// DisplayName returns the language name in that language.
func (l Language) DisplayName() string {
	switch l {
	case LangRU:
		return "Русский"
	case LangEN:
		return "English"
	case LangES:
		return "Español"
	case LangDE:
		return "Deutsch"
	}
	return string(l)
}

// Flag returns the flag emoji for the language.
func (l Language) Flag() string {
	switch l {
	case LangRU:
		return "🇷🇺"
	case LangEN:
		return "🇺🇸"
	case LangES:
		return "🇪🇸"
	case LangDE:
		return "🇩🇪"
	}
	return ""
}

// Valid reports whether l is supported.
func (l Language) Valid() bool {
	for _, v := range Languages {
		if v == l {
			return true
		}
	}
	return false
}

// Theme is the color scheme preference.
type Theme string

// Themes.
const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

// TextSize is the text scale preference.
type TextSize string

// Text sizes.
const (
	TextSmall  TextSize = "small"
	TextMedium TextSize = "medium"
	TextLarge  TextSize = "large"
)

// Valid reports whether s is a known size.
func (s TextSize) Valid() bool {
	switch s {
	case TextSmall, TextMedium, TextLarge:
		return true
	}
	return false
}

// Scale returns the scale factor for the size.
func (s TextSize) Scale() float64 {
	switch s {
	case TextSmall:
		return 0.9
	case TextLarge:
		return 1.15
	default:
		return 1.0
	}
}

// AppSettings holds user preferences.
type AppSettings struct {
	Language Language `json:"language"`
	Theme    Theme    `json:"theme"`
	TextSize TextSize `json:"textSize"`
}

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() AppSettings {
	return AppSettings{Language: LangRU, Theme: ThemeLight, TextSize: TextMedium}
}

// Valid reports whether every field is a known enum value.
func (s AppSettings) Valid() bool {
	return s.Language.Valid() && s.Theme.Valid() && s.TextSize.Valid()
}
