package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrencyIDR formats an amount as Indonesian Rupiah with thousands
// separators. Example: 15000.50 -> "Rp 15.000,50".
func FormatCurrencyIDR(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.Split(fixed, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := "Rp " + strings.Join(groups, ".")
	if decimalPart != "00" {
		out += "," + decimalPart
	}
	if negative {
		out = "-" + out
	}
	return out
}
