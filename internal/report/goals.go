package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// GoalStatus classifies spending against a monthly limit.
type GoalStatus string

const (
	StatusNoGoal    GoalStatus = "no-goal"
	StatusOnTrack   GoalStatus = "on-track"
	StatusAttention GoalStatus = "attention"
	StatusExceeded  GoalStatus = "exceeded"
)

var (
	hundred        = decimal.NewFromInt(100)
	attentionLevel = decimal.NewFromInt(75)
)

// GoalRow is the progress of one expense category in the current month.
type GoalRow struct {
	Category  string
	Spent     decimal.Decimal
	Limit     decimal.Decimal // zero when no goal is set
	Percent   decimal.Decimal
	Remaining decimal.Decimal
	Status    GoalStatus
}

// GoalProgress reports current-month spending for every expense category
// in categories, in that order. Percent is 100 when a category has
// spending but no goal.
func GoalProgress(txns []model.Transaction, goals model.Goals, categories []string, now time.Time) []GoalRow {
	spent := make(map[string]decimal.Decimal)
	for _, t := range Filter(txns, PeriodMonthly, now) {
		if t.Kind == model.KindExpense {
			spent[t.Category] = spent[t.Category].Add(t.Amount)
		}
	}

	rows := make([]GoalRow, 0, len(categories))
	for _, cat := range categories {
		row := GoalRow{Category: cat, Spent: spent[cat], Status: StatusNoGoal}
		if limit, ok := goals.Get(cat); ok && limit.IsPositive() {
			row.Limit = limit
		}

		switch {
		case row.Limit.IsPositive():
			row.Percent = row.Spent.Div(row.Limit).Mul(hundred).Round(2)
			row.Remaining = decimal.Max(decimal.Zero, row.Limit.Sub(row.Spent))
			switch {
			case row.Percent.GreaterThan(hundred):
				row.Status = StatusExceeded
			case row.Percent.GreaterThan(attentionLevel):
				row.Status = StatusAttention
			default:
				row.Status = StatusOnTrack
			}
		case row.Spent.IsPositive():
			row.Percent = hundred
		}
		rows = append(rows, row)
	}
	return rows
}
