// Package output - Display formatting for amounts
package output

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is shown for a missing rate or undefined amount
const NotAvailable = "n/a"

var printer = message.NewPrinter(language.English)

// Money renders d as dollars rounded to cents, e.g. "$1,234.50"
func Money(d decimal.Decimal) string {
	return "$" + grouped(d, 2, false)
}

// SignedMoney renders a difference with an explicit sign, e.g. "+$3.20"
func SignedMoney(d decimal.Decimal) string {
	rounded := d.Round(2)
	switch rounded.Sign() {
	case 1:
		return "+" + Money(rounded)
	case -1:
		return "-" + Money(rounded.Neg())
	default:
		return Money(decimal.Zero)
	}
}

// UnitPrice renders a per-unit amount to four places, e.g. "$0.0356"
func UnitPrice(d decimal.Decimal) string {
	return "$" + grouped(d, 4, false)
}

// MaybeUnitPrice renders a nullable per-unit amount
func MaybeUnitPrice(d decimal.NullDecimal) string {
	if !d.Valid {
		return NotAvailable
	}
	return UnitPrice(d.Decimal)
}

// Quantity renders a unit count with thousands separators and at most two
// decimal places, e.g. "45,000,000"
func Quantity(d decimal.Decimal) string {
	return grouped(d, 2, true)
}

func grouped(d decimal.Decimal, places int32, trim bool) string {
	s := d.StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if trim {
		frac = strings.TrimRight(frac, "0")
	}

	n, err := strconv.ParseInt(whole, 10, 64)
	if err == nil {
		whole = printer.Sprintf("%d", n)
	}

	if frac == "" {
		return sign + whole
	}
	return sign + whole + "." + frac
}
