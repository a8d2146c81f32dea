package automation

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// greetingName extracts the first name and normalizes its casing, so
// "MARIA SILVA" greets as "Maria".
func greetingName(fullName string) string {
	first, _, _ := strings.Cut(strings.TrimSpace(fullName), " ")
	if first == "" {
		return fullName
	}
	return cases.Title(language.BrazilianPortuguese).String(first)
}

// formatCurrency renders an amount in Brazilian format, e.g. R$ 1.234,56
func formatCurrency(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}

	out := "R$ " + b.String() + "," + fracPart
	if negative {
		out = "-" + out
	}
	return out
}

// formatDate renders a date in Brazilian format, e.g. 31/01/2026
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// dayWord returns the singular or plural day word
func dayWord(dias int) string {
	if dias == 1 {
		return "dia"
	}
	return "dias"
}
