package restaurante

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupedPrinter = message.NewPrinter(language.English)

// separatorSwap turns "1,234.56" into "1.234,56".
var separatorSwap = strings.NewReplacer(",", ".", ".", ",")

// FormatBRL formats v as Brazilian currency, e.g. "R$ 1.234,56".
func FormatBRL(v decimal.Decimal) string {
	s := groupedPrinter.Sprintf("%.2f", v.Round(2).InexactFloat64())
	return "R$ " + separatorSwap.Replace(s)
}
