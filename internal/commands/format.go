package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

var currencySymbols = map[string]string{
	"BRL": "R$",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// formatMoney renders amount with the currency symbol and grouping,
// e.g. R$ 1.234,50 or $1,234.50.
func formatMoney(currency string, amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	amount = amount.Round(2)
	fixed := amount.StringFixed(2)
	whole := humanize.Comma(amount.Truncate(0).IntPart())
	cents := fixed[len(fixed)-2:]

	switch strings.ToUpper(currency) {
	case "BRL", "EUR":
		return fmt.Sprintf("%s%s %s,%s", sign, symbol(currency), strings.ReplaceAll(whole, ",", "."), cents)
	default:
		return fmt.Sprintf("%s%s%s.%s", sign, symbol(currency), whole, cents)
	}
}

func symbol(currency string) string {
	if s, ok := currencySymbols[strings.ToUpper(currency)]; ok {
		return s
	}
	return strings.ToUpper(currency) + " "
}

func formatPercent(p decimal.Decimal) string {
	return p.StringFixed(1) + "%"
}

func formatDate(t time.Time) string {
	return t.Format(model.DateFormat)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

func parseKind(s string) (model.Kind, error) {
	k := model.Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("invalid kind %q: must be %s or %s", s, model.KindIncome, model.KindExpense)
	}
	return k, nil
}

func describe(t model.Transaction, currency string) string {
	s := fmt.Sprintf("%s %s %s on %s", t.Kind, t.Category, formatMoney(currency, t.Amount), formatDate(t.Date))
	if t.Description != "" {
		s += ", " + t.Description
	}
	return s
}
