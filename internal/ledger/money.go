package ledger

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Places is the number of decimal places every stored amount carries.
const Places = 2

var printer = message.NewPrinter(language.English)

// Round rounds an amount to centavo precision.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Sum adds amounts and rounds the result.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return Round(total)
}

// FormatPeso renders an amount the way receipts and error messages show it,
// e.g. ₱3,000.00. Whole pesos are grouped by the locale printer as an exact
// int64; centavos come from the decimal string.
func FormatPeso(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	rounded := Round(d)
	_, centavos, _ := strings.Cut(rounded.StringFixed(Places), ".")
	pesos := printer.Sprintf("%v", number.Decimal(rounded.IntPart()))
	return sign + "₱" + pesos + "." + centavos
}

// hasCentavoPrecision reports whether d has at most two decimal places.
func hasCentavoPrecision(d decimal.Decimal) bool {
	return d.Equal(Round(d))
}
