package report

import (
	"strings"

	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = "EGP"

// FormatAmount renders amount in the display format of the ISO currency
// code, rounded to the currency's minor unit.
func FormatAmount(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCurrency
	}
	// money.New is the only way to get a non-nil currency for a code.
	cur := money.New(0, code).Currency()
	if cur == nil || cur.Template == "" {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// SignedAmount is FormatAmount with an explicit plus sign for positive values
// and "-" for zero, for difference columns.
func SignedAmount(amount decimal.Decimal, code string) string {
	if amount.IsZero() {
		return "-"
	}
	if amount.IsPositive() {
		return "+" + FormatAmount(amount, code)
	}
	return FormatAmount(amount, code)
}
