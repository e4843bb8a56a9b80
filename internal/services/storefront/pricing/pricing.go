// Package pricing formats region prices for the request language.
package pricing

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Format renders amount in currencyCode using tag's number conventions.
// Italian places the symbol after the amount ("39,90 €"); other languages
// place it before ("€39.90"). Unknown currency codes fall back to
// "<amount> <CODE>".
func Format(amount float64, currencyCode string, tag language.Tag) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	printer := message.NewPrinter(tag)
	unit, err := currency.ParseISO(code)
	if err != nil {
		return printer.Sprintf("%v %s", number.Decimal(amount, number.Scale(2)), code)
	}
	scale, _ := currency.Standard.Rounding(unit)
	digits := printer.Sprint(number.Decimal(amount, number.Scale(scale)))
	symbol := printer.Sprint(currency.NarrowSymbol(unit))
	if base, _ := tag.Base(); base.String() == "it" {
		return digits + " " + symbol
	}
	return symbol + digits
}

// FormatOptional renders a possibly missing price; missing prices yield fallback.
func FormatOptional(amount *float64, currencyCode string, tag language.Tag, fallback string) string {
	if amount == nil {
		return fallback
	}
	return Format(*amount, currencyCode, tag)
}
