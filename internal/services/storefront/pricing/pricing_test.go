package pricing

import (
	"strings"
	"testing"

	"golang.org/x/text/language"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   float64
		currency string
		tag      language.Tag
		want     string
	}{
		{name: "italian euro", amount: 39.9, currency: "eur", tag: language.Italian, want: "39,90 €"},
		{name: "english euro", amount: 39.9, currency: "EUR", tag: language.English, want: "€39.90"},
		{name: "italian thousands", amount: 1234.5, currency: "eur", tag: language.Italian, want: "1.234,50 €"},
		{name: "english thousands", amount: 1234.5, currency: "eur", tag: language.English, want: "€1,234.50"},
		{name: "zero decimal currency", amount: 1200, currency: "jpy", tag: language.English, want: "¥1,200"},
	}
	for _, tc := range tests {
		if got := Format(tc.amount, tc.currency, tc.tag); got != tc.want {
			t.Fatalf("%s: Format() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestFormatUnknownCurrency(t *testing.T) {
	t.Parallel()

	got := Format(10, "zzz", language.English)
	if !strings.HasSuffix(got, " ZZZ") || !strings.HasPrefix(got, "10") {
		t.Fatalf("Format() = %q", got)
	}
}

func TestFormatOptional(t *testing.T) {
	t.Parallel()

	if got := FormatOptional(nil, "eur", language.Italian, "n/d"); got != "n/d" {
		t.Fatalf("FormatOptional(nil) = %q", got)
	}
	amount := 5.0
	if got := FormatOptional(&amount, "eur", language.Italian, "n/d"); got != "5,00 €" {
		t.Fatalf("FormatOptional() = %q", got)
	}
}
