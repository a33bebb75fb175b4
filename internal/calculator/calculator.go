// Package calculator turns raw bill input into a split record.
package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/coinsplit/internal/model"
)

// Input is the raw form state of one calculation.
type Input struct {
	BillAmount    string
	Participants  int
	TipPercentage float64
	Mode          model.SplitMode
	// Shares holds percentages in percentage mode and amounts in manual mode.
	// Negative or NaN entries count as unset.
	Shares []float64
	Names  []string
	Name   string
}

// Calculator builds splits. The zero value is not usable; call New.
type Calculator struct {
	Now   func() time.Time
	NewID func() string
	// Label names participants that were not given a name. i is 1-based.
	Label func(i int) string
}

// New returns a calculator using the wall clock and random UUIDs.
func New() *Calculator {
	return &Calculator{
		Now:   time.Now,
		NewID: func() string { return uuid.NewString() },
		Label: DefaultLabel,
	}
}

// DefaultLabel is the fallback participant name.
func DefaultLabel(i int) string {
	return fmt.Sprintf("Participant #%d", i)
}

// Compute builds a split with the default calculator.
func Compute(in Input) model.Split {
	return New().Compute(in)
}

// Compute builds a split from the input. It never fails: malformed numbers
// count as zero and a non-positive participant count yields no participants.
func (c *Calculator) Compute(in Input) model.Split {
	bill := ParseAmount(in.BillAmount)
	tipPct := in.TipPercentage
	if math.IsNaN(tipPct) || math.IsInf(tipPct, 0) || tipPct < 0 {
		tipPct = 0
	}
	tip := bill * tipPct / 100
	total := bill + tip

	mode := in.Mode
	if !mode.Valid() {
		mode = model.ModeEqual
	}

	split := model.Split{
		ID:            c.NewID(),
		Name:          SplitName(in.Name),
		CreatedAt:     c.Now(),
		TotalAmount:   total,
		TipPercentage: tipPct,
		Mode:          mode,
		BillAmount:    bill,
		TipAmount:     tip,
	}
	if in.Participants < 1 {
		return split
	}

	allocs := strategyFor(mode).allocate(total, in.Participants, in.Shares)
	split.Participants = make([]model.Participant, in.Participants)
	for i := range split.Participants {
		n := i + 1
		name := ""
		if i < len(in.Names) {
			name = strings.TrimSpace(in.Names[i])
		}
		if name == "" {
			name = c.Label(n)
		}
		split.Participants[i] = model.Participant{
			ID:         c.NewID(),
			Name:       name,
			Amount:     allocs[i].amount,
			Percentage: allocs[i].percentage,
			Color:      model.ParticipantColors[n%len(model.ParticipantColors)],
		}
	}
	return split
}

// SplitName normalizes a user supplied split name.
func SplitName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.DefaultSplitName
	}
	return name
}

// ParseAmount parses a user typed amount. Comma decimal separators and
// grouping spaces are accepted. Anything unparseable, negative or
// non-finite is 0.
func ParseAmount(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	text = strings.ReplaceAll(text, " ", "")
	text = strings.ReplaceAll(text, "\u00a0", "")
	text = strings.ReplaceAll(text, ",", ".")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// RoundCents rounds to two decimal places.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
