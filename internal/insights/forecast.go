package insights

import (
	"github.com/shopspring/decimal"
)

// Trend classifies the slope of recent monthly expenses.
type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// Forecast is the predicted expense total for the month after the history.
type Forecast struct {
	Amount decimal.Decimal
	Slope  decimal.Decimal
	Trend  Trend
	Months []string // history the prediction was fitted on
}

// Predict fits the expense history of buckets. Months without expenses are
// left out so gaps do not drag the line toward zero.
func (e *Engine) Predict(buckets map[string]MonthBucket) Forecast {
	var months []string
	var ys []decimal.Decimal
	for _, key := range Months(buckets) {
		if b := buckets[key]; b.Expense.IsPositive() {
			months = append(months, key)
			ys = append(ys, b.Expense)
		}
	}
	if len(ys) > e.opts.Window {
		months = months[len(months)-e.opts.Window:]
		ys = ys[len(ys)-e.opts.Window:]
	}

	f := Forecast{Amount: decimal.Zero, Slope: decimal.Zero, Trend: TrendStable, Months: months}
	switch {
	case len(ys) == 0:
		return f
	case len(ys) < e.opts.MinRegressionMonths:
		f.Amount = mean(ys)
	default:
		slope, next, ok := linearFit(ys)
		if !ok {
			f.Amount = mean(ys)
			break
		}
		f.Slope = slope
		f.Amount = next
		f.Trend = e.classify(slope)
	}

	if f.Amount.IsNegative() {
		f.Amount = decimal.Zero
	}
	return f
}

func (e *Engine) classify(slope decimal.Decimal) Trend {
	threshold := e.opts.TrendThreshold.Decimal
	switch {
	case slope.GreaterThan(threshold):
		return TrendUp
	case slope.LessThan(threshold.Neg()):
		return TrendDown
	default:
		return TrendStable
	}
}

// linearFit runs ordinary least squares over x = 0..n-1 and returns the
// slope and the fitted value at x = n. ok is false when the x spread is zero.
func linearFit(ys []decimal.Decimal) (slope, next decimal.Decimal, ok bool) {
	n := decimal.NewFromInt(int64(len(ys)))
	sumX, sumY, sumXY, sumXX := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	for i, y := range ys {
		x := decimal.NewFromInt(int64(i))
		sumX = sumX.Add(x)
		sumY = sumY.Add(y)
		sumXY = sumXY.Add(x.Mul(y))
		sumXX = sumXX.Add(x.Mul(x))
	}

	denom := n.Mul(sumXX).Sub(sumX.Mul(sumX))
	if denom.IsZero() {
		return decimal.Zero, decimal.Zero, false
	}
	slope = n.Mul(sumXY).Sub(sumX.Mul(sumY)).Div(denom)
	intercept := sumY.Sub(slope.Mul(sumX)).Div(n)
	return slope, slope.Mul(n).Add(intercept), true
}

func mean(ys []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(ys[0], ys[1:]...).Div(decimal.NewFromInt(int64(len(ys))))
}
