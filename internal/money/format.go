// Package money formats amounts for display.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultSymbol is the display currency symbol.
const DefaultSymbol = "₱"

// Formatter renders amounts as whole currency units with digit grouping,
// e.g. "₱12,500".
type Formatter struct {
	symbol  string
	printer *message.Printer
}

// NewFormatter returns a formatter using symbol, or DefaultSymbol when
// symbol is empty.
func NewFormatter(symbol string) *Formatter {
	if symbol == "" {
		symbol = DefaultSymbol
	}
	return &Formatter{
		symbol:  symbol,
		printer: message.NewPrinter(language.English),
	}
}

// Format rounds d to whole units and renders it with the symbol.
func (f *Formatter) Format(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	if n < 0 {
		return "-" + f.printer.Sprintf("%s%d", f.symbol, -n)
	}
	return f.printer.Sprintf("%s%d", f.symbol, n)
}

// Exact renders d with two decimals and digit grouping.
func (f *Formatter) Exact(d decimal.Decimal) string {
	whole := d.Truncate(0)
	cents := d.Sub(whole).Abs().Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	sign := ""
	if d.IsNegative() {
		sign = "-"
		whole = whole.Abs()
	}
	if cents == 100 {
		whole = whole.Add(decimal.NewFromInt(1))
		cents = 0
	}
	return sign + f.printer.Sprintf("%s%d", f.symbol, whole.IntPart()) + fmt.Sprintf(".%02d", cents)
}
