package services

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency formats an amount as US dollars with thousands separators
// and exactly 2 decimal places, e.g. $1,234,567.89. Rounding is half away
// from zero on the decimal value, so 2.675 displays as $2.68.
// Non-finite amounts render as "—".
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "—"
	}

	d := decimal.NewFromFloat(amount).Round(2)
	negative := d.IsNegative()
	raw := d.Abs().StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	result := "$" + applyThousandsGrouping(parts[0]) + "." + parts[1]
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPercent renders a fractional multiplier (0.15) as "15%" or "12.5%".
func FormatPercent(frac float64) string {
	if math.IsNaN(frac) || math.IsInf(frac, 0) {
		return "—"
	}
	return decimal.NewFromFloat(frac).Shift(2).Round(2).String() + "%"
}

// applyThousandsGrouping inserts a comma every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
