package services

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var labelPrinter = message.NewPrinter(language.English)

// CurrencyLabel formats an amount as whole currency units with thousands
// separators, e.g. $1,234.
func CurrencyLabel(d decimal.Decimal) string {
	return labelPrinter.Sprintf("$%.0f", d.Round(0).InexactFloat64())
}
