// Package insights turns a transaction list and spending goals into a
// dashboard snapshot: monthly buckets, savings rate, top category, a
// linear expense forecast and budget alerts.
//
// Everything here is a pure computation over the values passed in. Nothing
// is cached between calls and inputs are never modified.
package insights

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
)

// Options tunes the forecast and alert rules. Zero or negative counts and
// ratios, and an unset TrendThreshold, take the defaults from
// DefaultOptions.
type Options struct {
	// Window is the maximum number of recent expense months fitted.
	Window int
	// MinRegressionMonths is the history needed before fitting a line;
	// shorter histories forecast their mean.
	MinRegressionMonths int
	// TrendThreshold is an absolute change per month, in currency units,
	// beyond which the trend is up or down. Zero makes any change a trend.
	TrendThreshold decimal.NullDecimal
	// WarningRatio of a goal's limit raises a warning.
	WarningRatio decimal.Decimal
	// OverrunRatio of the forecast raises a warning on the month total.
	OverrunRatio decimal.Decimal
}

// DefaultOptions returns the standard rule set.
func DefaultOptions() Options {
	return Options{
		Window:              6,
		MinRegressionMonths: 3,
		TrendThreshold:      decimal.NewNullDecimal(decimal.NewFromInt(50)),
		WarningRatio:        decimal.RequireFromString("0.9"),
		OverrunRatio:        decimal.RequireFromString("1.15"),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Window <= 0 {
		o.Window = def.Window
	}
	if o.MinRegressionMonths <= 0 {
		o.MinRegressionMonths = def.MinRegressionMonths
	}
	if !o.TrendThreshold.Valid || o.TrendThreshold.Decimal.IsNegative() {
		o.TrendThreshold = def.TrendThreshold
	}
	if !o.WarningRatio.IsPositive() {
		o.WarningRatio = def.WarningRatio
	}
	if !o.OverrunRatio.IsPositive() {
		o.OverrunRatio = def.OverrunRatio
	}
	return o
}

// Snapshot is the dashboard computed for one reference date.
type Snapshot struct {
	CumulativeBalance decimal.Decimal
	CurrentMonth      MonthBucket
	PreviousMonth     MonthBucket
	SavingsRate       decimal.Decimal // percent
	TopCategory       CategoryTotal
	Forecast          decimal.Decimal
	Slope             decimal.Decimal
	Trend             Trend
	Alerts            []Alert
	// Warnings lists inputs that were skipped without failing the snapshot.
	Warnings []string
}

// Engine computes snapshots with a fixed set of options.
type Engine struct {
	opts Options
}

// New creates an Engine.
func New(opts Options) *Engine {
	return &Engine{opts: opts.withDefaults()}
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// Compute builds the snapshot for now with the default options.
func Compute(txns []model.Transaction, goals model.Goals, now time.Time) (Snapshot, error) {
	return New(DefaultOptions()).Compute(txns, goals, now)
}

// Compute builds the snapshot for now. It fails only when a transaction is
// invalid; bad goals are skipped and reported in Snapshot.Warnings.
func (e *Engine) Compute(txns []model.Transaction, goals model.Goals, now time.Time) (Snapshot, error) {
	buckets, err := Aggregate(txns)
	if err != nil {
		return Snapshot{}, err
	}

	current, ok := buckets[id.MonthKey(now)]
	if !ok {
		current = emptyBucket(id.MonthKey(now))
	}
	previous, ok := buckets[id.PrevMonthKey(now)]
	if !ok {
		previous = emptyBucket(id.PrevMonthKey(now))
	}

	forecast := e.Predict(buckets)
	alerts, warnings := e.alerts(current, goals, forecast.Amount)

	return Snapshot{
		CumulativeBalance: cumulativeBalance(txns),
		CurrentMonth:      current,
		PreviousMonth:     previous,
		SavingsRate:       savingsRate(current),
		TopCategory:       topCategory(current),
		Forecast:          forecast.Amount,
		Slope:             forecast.Slope,
		Trend:             forecast.Trend,
		Alerts:            alerts,
		Warnings:          warnings,
	}, nil
}
