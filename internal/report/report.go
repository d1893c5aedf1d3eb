// Package report builds the tabular views shown by the report and list
// commands: period filters, totals, per-category breakdowns, monthly rows
// and goal progress.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
)

// Period selects which transactions a report covers.
type Period string

const (
	PeriodAll     Period = "all"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAnnual  Period = "annual"
)

// ParsePeriod validates a period name.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PeriodAll, PeriodWeekly, PeriodMonthly, PeriodAnnual:
		return p, nil
	case "":
		return PeriodAll, nil
	}
	return "", fmt.Errorf("invalid period %q: must be one of all, weekly, monthly, annual", s)
}

// Filter returns the transactions of txns that fall inside period relative
// to now, keeping their order. Weekly covers the last seven days including
// today.
func Filter(txns []model.Transaction, period Period, now time.Time) []model.Transaction {
	today := model.NewDate(now.Year(), now.Month(), now.Day())
	weekAgo := today.AddDate(0, 0, -7)

	var out []model.Transaction
	for _, t := range txns {
		var keep bool
		switch period {
		case PeriodWeekly:
			keep = !t.Date.Before(weekAgo)
		case PeriodMonthly:
			keep = t.Date.Year() == now.Year() && t.Date.Month() == now.Month()
		case PeriodAnnual:
			keep = t.Date.Year() == now.Year()
		default:
			keep = true
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}

// SortByDateDesc orders txns newest first; equal dates keep their order.
func SortByDateDesc(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
}

// Totals sums a set of transactions.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
	Count   int
}

// Summarize totals txns.
func Summarize(txns []model.Transaction) Totals {
	var s Totals
	for _, t := range txns {
		switch t.Kind {
		case model.KindIncome:
			s.Income = s.Income.Add(t.Amount)
		case model.KindExpense:
			s.Expense = s.Expense.Add(t.Amount)
		}
		s.Count++
	}
	s.Balance = s.Income.Sub(s.Expense)
	return s
}

// CategoryRow is one line of a category breakdown.
type CategoryRow struct {
	Category string
	Amount   decimal.Decimal
	Percent  decimal.Decimal // share of total expense
}

// ByCategory totals expenses per category, largest first and by name on
// ties. Expenses without a category count as model.Uncategorized.
func ByCategory(txns []model.Transaction) []CategoryRow {
	totals := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, t := range txns {
		if t.Kind != model.KindExpense {
			continue
		}
		cat := t.Category
		if cat == "" {
			cat = model.Uncategorized
		}
		totals[cat] = totals[cat].Add(t.Amount)
		total = total.Add(t.Amount)
	}

	rows := make([]CategoryRow, 0, len(totals))
	for cat, amount := range totals {
		row := CategoryRow{Category: cat, Amount: amount}
		if total.IsPositive() {
			row.Percent = amount.Div(total).Mul(decimal.NewFromInt(100)).Round(1)
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].Amount.Cmp(rows[j].Amount); c != 0 {
			return c > 0
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// MonthRow holds the totals of one calendar month.
type MonthRow struct {
	Month   string // YYYY-MM
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

// Monthly groups txns by month, oldest first.
func Monthly(txns []model.Transaction) []MonthRow {
	index := make(map[string]int)
	var rows []MonthRow
	for _, t := range txns {
		key := id.MonthKey(t.Date)
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, MonthRow{Month: key})
		}
		switch t.Kind {
		case model.KindIncome:
			rows[i].Income = rows[i].Income.Add(t.Amount)
		case model.KindExpense:
			rows[i].Expense = rows[i].Expense.Add(t.Amount)
		}
	}
	for i := range rows {
		rows[i].Balance = rows[i].Income.Sub(rows[i].Expense)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Month < rows[j].Month })
	return rows
}
