package ui

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/five82/farefinder/internal/flights"
)

// moneyPrinter groups thousands with commas: 29952 -> "29,952.00".
var moneyPrinter = message.NewPrinter(language.English)

// formatMoney renders "$29,952.00 MXN". Non-numeric amounts are shown as
// sent; an empty amount renders as "n/a".
func formatMoney(amount flights.Amount, currency string) string {
	currency = strings.TrimSpace(currency)
	value, ok := amount.Float()
	if !ok {
		raw := strings.TrimSpace(string(amount))
		if raw == "" {
			return "n/a"
		}
		return strings.TrimSpace("$" + raw + " " + currency)
	}

	negative := value < 0
	out := "$" + moneyPrinter.Sprintf("%.2f", math.Abs(value))
	if negative {
		out = "-" + out
	}
	if currency != "" {
		out += " " + currency
	}
	return out
}
