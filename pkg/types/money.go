package types

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are stored as integer kobo (1 naira = 100 kobo) and only converted
// to decimal naira at the API boundary.

var koboPerNaira = decimal.NewFromInt(100)

// NairaFromKobo converts an integer kobo amount to decimal naira.
func NairaFromKobo(kobo int64) decimal.Decimal {
	return decimal.NewFromInt(kobo).Div(koboPerNaira)
}

// KoboFromNaira converts a decimal naira amount to integer kobo, truncating
// sub-kobo precision.
func KoboFromNaira(naira decimal.Decimal) int64 {
	return naira.Mul(koboPerNaira).IntPart()
}

// FormatNaira renders a kobo amount as a display string, e.g. "₦1,500.00".
func FormatNaira(kobo int64) string {
	naira := NairaFromKobo(kobo)
	negative := naira.IsNegative()
	fixed := naira.Abs().StringFixed(2)

	parts := strings.SplitN(fixed, ".", 2)
	grouped := groupThousands(parts[0])

	sign := ""
	if negative {
		sign = "-"
	}
	return fmt.Sprintf("%s₦%s.%s", sign, grouped, parts[1])
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
