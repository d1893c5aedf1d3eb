package insights

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Severity ranks an alert.
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
)

// AlertKind says which rule raised an alert.
type AlertKind string

const (
	AlertGoalExceeded    AlertKind = "goal-exceeded"
	AlertGoalNear        AlertKind = "goal-near"
	AlertForecastOverrun AlertKind = "forecast-overrun"
)

// Alert is one budget notice. Spent and Limit hold the compared amounts;
// for forecast overruns Limit is the forecast. Overage is zero unless the
// alert is a danger.
type Alert struct {
	Severity Severity
	Kind     AlertKind
	Category string
	Spent    decimal.Decimal
	Limit    decimal.Decimal
	Overage  decimal.Decimal
	Message  string
}

// alerts checks each goal against the current month, then the month total
// against the forecast. Goals that cannot be evaluated are reported through
// warnings and skipped.
func (e *Engine) alerts(current MonthBucket, goals model.Goals, forecast decimal.Decimal) (alerts []Alert, warnings []string) {
	seen := make(map[string]bool, len(goals))
	for _, g := range goals {
		switch {
		case g.Category == "":
			warnings = append(warnings, fmt.Sprintf("skipping goal with empty category (limit %s)", g.Limit))
			continue
		case !g.Limit.IsPositive():
			warnings = append(warnings, fmt.Sprintf("skipping goal %q: limit %s is not positive", g.Category, g.Limit))
			continue
		case seen[g.Category]:
			warnings = append(warnings, fmt.Sprintf("skipping duplicate goal %q", g.Category))
			continue
		}
		seen[g.Category] = true

		spent := current.CategoryExpense(g.Category)
		switch {
		case spent.GreaterThan(g.Limit):
			over := spent.Sub(g.Limit)
			alerts = append(alerts, Alert{
				Severity: SeverityDanger,
				Kind:     AlertGoalExceeded,
				Category: g.Category,
				Spent:    spent,
				Limit:    g.Limit,
				Overage:  over,
				Message: fmt.Sprintf("%s: goal exceeded by %s (spent %s of %s)",
					g.Category, over.StringFixed(2), spent.StringFixed(2), g.Limit.StringFixed(2)),
			})
		case spent.GreaterThan(g.Limit.Mul(e.opts.WarningRatio)):
			alerts = append(alerts, Alert{
				Severity: SeverityWarning,
				Kind:     AlertGoalNear,
				Category: g.Category,
				Spent:    spent,
				Limit:    g.Limit,
				Overage:  decimal.Zero,
				Message: fmt.Sprintf("%s: %s%% of goal reached (spent %s of %s)",
					g.Category, e.opts.WarningRatio.Mul(hundred).String(), spent.StringFixed(2), g.Limit.StringFixed(2)),
			})
		}
	}

	if forecast.IsPositive() && current.Expense.GreaterThan(forecast.Mul(e.opts.OverrunRatio)) {
		above := e.opts.OverrunRatio.Sub(decimal.NewFromInt(1)).Mul(hundred)
		alerts = append(alerts, Alert{
			Severity: SeverityWarning,
			Kind:     AlertForecastOverrun,
			Spent:    current.Expense,
			Limit:    forecast,
			Overage:  decimal.Zero,
			Message: fmt.Sprintf("current spending %s is more than %s%% above forecast %s",
				current.Expense.StringFixed(2), above.String(), forecast.StringFixed(2)),
		})
	}
	return alerts, warnings
}
