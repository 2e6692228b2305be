// Package numfmt formats deal figures for narrative text.
package numfmt

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Money renders a USD amount in compact form: $850K, $42.5M, $1.25B.
func Money(v float64) string {
	abs := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1e9:
		return sign + printer.Sprintf("$%.2fB", abs/1e9)
	case abs >= 1e6:
		return sign + printer.Sprintf("$%.1fM", abs/1e6)
	case abs >= 1e3:
		return sign + printer.Sprintf("$%.0fK", abs/1e3)
	}
	return sign + printer.Sprintf("$%.0f", abs)
}

// MoneyExact renders a USD amount with thousands separators: $150,000,000.
func MoneyExact(v float64) string {
	return printer.Sprintf("$%d", int64(math.Round(v)))
}

// Percent renders a value already expressed in percent: 24.5 -> "24.5%".
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// Fraction renders a 0-1 fraction as a percentage: 0.18 -> "18.0%".
func Fraction(v float64) string {
	return Percent(v * 100)
}

// Multiple renders a MOIC: 3.2 -> "3.2x".
func Multiple(v float64) string {
	return printer.Sprintf("%.1fx", v)
}

// Number renders a decimal with one fractional digit and separators.
func Number(v float64) string {
	return printer.Sprintf("%.1f", v)
}

// Signed renders a delta with an explicit sign: +1.50, -0.30.
func Signed(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}
