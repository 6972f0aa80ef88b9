package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAUD formats an amount as Australian dollars, e.g. $46,800.00.
// Rounding to cents happens here and nowhere earlier.
func FormatAUD(amount float64) string {
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

// applyThousandsGrouping inserts a comma between every group of three digits.
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

// FormatQty formats a quantity: whole numbers without decimals, others with 2.
func FormatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}

// FormatPercent formats a percentage without trailing zeros, e.g. 20%, 12.5%.
func FormatPercent(p float64) string {
	return decimal.NewFromFloat(p).Round(2).String() + "%"
}
