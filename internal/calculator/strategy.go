package calculator

import (
	"math"

	"github.com/verte-zerg/coinsplit/internal/model"
)

type allocation struct {
	amount     float64
	percentage float64
}

// strategy divides a total between n participants.
type strategy interface {
	allocate(total float64, n int, shares []float64) []allocation
}

func strategyFor(mode model.SplitMode) strategy {
	switch mode {
	case model.ModePercentage:
		return percentageStrategy{}
	case model.ModeManual:
		return manualStrategy{}
	default:
		return equalStrategy{}
	}
}

type equalStrategy struct{}

func (equalStrategy) allocate(total float64, n int, _ []float64) []allocation {
	out := make([]allocation, n)
	each := total / float64(n)
	pct := 100 / float64(n)
	for i := range out {
		out[i] = allocation{amount: each, percentage: pct}
	}
	return out
}

type percentageStrategy struct{}

func (percentageStrategy) allocate(total float64, n int, shares []float64) []allocation {
	pcts := validPercentages(shares, n)
	if pcts == nil {
		pcts = make([]float64, n)
		for i := range pcts {
			pcts[i] = 100 / float64(n)
		}
	}
	out := make([]allocation, n)
	var assigned float64
	for i, p := range pcts {
		out[i] = allocation{amount: RoundCents(total * p / 100), percentage: p}
		if i < n-1 {
			assigned += out[i].amount
		}
	}
	// Last participant absorbs the rounding residual.
	out[n-1].amount = math.Max(total-assigned, 0)
	if total > 0 {
		out[n-1].percentage = out[n-1].amount / total * 100
	}
	return out
}

// validPercentages returns the first n shares when they are all in range and
// add up to 100, otherwise nil.
func validPercentages(shares []float64, n int) []float64 {
	if len(shares) < n {
		return nil
	}
	var sum float64
	for _, p := range shares[:n] {
		if math.IsNaN(p) || p < 0 || p > 100 {
			return nil
		}
		sum += p
	}
	if math.Abs(sum-100) > 0.01 {
		return nil
	}
	return append([]float64(nil), shares[:n]...)
}

type manualStrategy struct{}

func (manualStrategy) allocate(total float64, n int, shares []float64) []allocation {
	out := make([]allocation, n)
	given := make([]bool, n)
	var assigned float64
	missing := 0
	for i := range out {
		if i < len(shares) && !math.IsNaN(shares[i]) && !math.IsInf(shares[i], 0) && shares[i] >= 0 {
			out[i].amount = RoundCents(shares[i])
			given[i] = true
			assigned += out[i].amount
			continue
		}
		missing++
	}
	if missing > 0 {
		each := RoundCents(math.Max(total-assigned, 0) / float64(missing))
		for i := range out {
			if !given[i] {
				out[i].amount = each
			}
		}
	}

	var others float64
	for i := 0; i < n-1; i++ {
		others += out[i].amount
	}
	// Shares that overshoot the total fall back to an equal split.
	if others-total >= 0.005 {
		return equalStrategy{}.allocate(total, n, nil)
	}
	out[n-1].amount = math.Max(total-others, 0)

	for i := range out {
		if total > 0 {
			out[i].percentage = out[i].amount / total * 100
		}
	}
	return out
}
