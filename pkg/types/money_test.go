package types

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatNaira(t *testing.T) {
	tests := []struct {
		kobo int64
		want string
	}{
		{kobo: 0, want: "₦0.00"},
		{kobo: 150000, want: "₦1,500.00"},
		{kobo: 300050, want: "₦3,000.50"},
		{kobo: 123456789, want: "₦1,234,567.89"},
		{kobo: -150000, want: "-₦1,500.00"},
	}
	for _, tt := range tests {
		if got := FormatNaira(tt.kobo); got != tt.want {
			t.Fatalf("FormatNaira(%d) = %q want %q", tt.kobo, got, tt.want)
		}
	}
}

func TestNairaKoboRoundTrip(t *testing.T) {
	naira := decimal.RequireFromString("1500.50")
	kobo := KoboFromNaira(naira)
	if kobo != 150050 {
		t.Fatalf("expected 150050 kobo got %d", kobo)
	}
	if back := NairaFromKobo(kobo); !back.Equal(naira) {
		t.Fatalf("round trip mismatch: %s", back)
	}
}

func TestKoboFromNairaTruncatesSubKobo(t *testing.T) {
	naira := decimal.RequireFromString("10.009")
	if got := KoboFromNaira(naira); got != 1000 {
		t.Fatalf("expected truncation to 1000 kobo, got %d", got)
	}
}
