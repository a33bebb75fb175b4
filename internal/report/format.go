package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Currency is appended to displayed amounts.
const Currency = "₽"

// FormatAmount shows whole currency units with digit grouping. Fractions are
// truncated, not rounded.
func FormatAmount(v float64) string {
	return groupDigits(int64(v)) + " " + Currency
}

// FormatShort abbreviates amounts of a thousand or more.
func FormatShort(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%dк %s", int64(v/1000), Currency)
	}
	return fmt.Sprintf("%d %s", int64(v), Currency)
}

// FormatExact shows an amount with cents.
func FormatExact(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPercent shows a share with at most one decimal.
func FormatPercent(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d%%", int64(v))
	}
	return fmt.Sprintf("%.1f%%", v)
}

func groupDigits(n int64) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return sign + s
	}
	var b strings.Builder
	pre := len(s) % 3
	if pre > 0 {
		b.WriteString(s[:pre])
	}
	for i := pre; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return sign + b.String()
}
