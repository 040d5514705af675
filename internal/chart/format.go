package chart

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency is appended to every formatted amount.
const Currency = "EUR"

var (
	displayLang = language.Slovenian
	printer     = message.NewPrinter(displayLang)
	upper       = cases.Upper(displayLang)
	lower       = cases.Lower(displayLang)
)

// FormatAmount renders v with Slovenian grouping and two decimals.
func FormatAmount(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2))) + " " + Currency
}

// FormatTick renders an axis value without decimals.
func FormatTick(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(0)))
}

// DisplayName lowers an all-caps name to sentence case. Mixed-case names are
// returned unchanged.
func DisplayName(name string) string {
	if name == "" || upper.String(name) != name {
		return name
	}
	r, size := utf8.DecodeRuneInString(name)
	return upper.String(string(r)) + lower.String(name[size:])
}
