package roi

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders whole US dollars with thousands separators.
// Non-finite amounts render as $0.
func FormatCurrency(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0"
	}
	rounded := math.Round(amount)
	if rounded < 0 {
		return "-$" + printer.Sprintf("%d", int64(-rounded))
	}
	return "$" + printer.Sprintf("%d", int64(rounded))
}

// FormatCount renders a rounded quantity with thousands separators.
func FormatCount(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "0"
	}
	return printer.Sprintf("%d", int64(math.Round(x)))
}
