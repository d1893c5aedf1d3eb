package insights

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

var seq int

func txn(kind model.Kind, category, amount string, when time.Time) model.Transaction {
	seq++
	return model.Transaction{
		ID:          "t" + string(rune('a'+seq%26)),
		Kind:        kind,
		Category:    category,
		Amount:      dec(amount),
		Description: category,
		Date:        when,
	}
}

func expense(category, amount string, when time.Time) model.Transaction {
	return txn(model.KindExpense, category, amount, when)
}

func income(amount string, when time.Time) model.Transaction {
	return txn(model.KindIncome, "Salary", amount, when)
}

func goals(pairs ...string) model.Goals {
	var g model.Goals
	for i := 0; i+1 < len(pairs); i += 2 {
		g = g.Set(pairs[i], dec(pairs[i+1]))
	}
	return g
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]any{"want %s, got %s", want, got}, msgAndArgs...)...)
}

var now = date(2025, 3, 15)

func TestCompute_Empty(t *testing.T) {
	snap, err := Compute(nil, nil, now)
	require.NoError(t, err)

	assertDec(t, "0", snap.CumulativeBalance)
	assertDec(t, "0", snap.Forecast)
	assertDec(t, "0", snap.SavingsRate)
	assert.Equal(t, TrendStable, snap.Trend)
	assert.Equal(t, NoCategory, snap.TopCategory.Category)
	assertDec(t, "0", snap.TopCategory.Amount)
	assert.Empty(t, snap.Alerts)
	assert.Empty(t, snap.Warnings)
	assert.Equal(t, "2025-03", snap.CurrentMonth.Month)
	assert.Equal(t, "2025-02", snap.PreviousMonth.Month)
	assertDec(t, "0", snap.CurrentMonth.Expense)
}

func TestAggregate(t *testing.T) {
	txns := []model.Transaction{
		expense("Food", "10.50", date(2025, 1, 3)),
		income("1000", date(2025, 1, 5)),
		expense("Transport", "20", date(2025, 1, 9)),
		expense("Food", "5.25", date(2025, 1, 20)),
		expense("", "7", date(2025, 2, 1)),
	}
	buckets, err := Aggregate(txns)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, []string{"2025-01", "2025-02"}, Months(buckets))

	jan := buckets["2025-01"]
	assertDec(t, "1000", jan.Income)
	assertDec(t, "35.75", jan.Expense)
	assertDec(t, "964.25", jan.Balance())
	require.Len(t, jan.ExpenseByCategory, 2)
	assert.Equal(t, "Food", jan.ExpenseByCategory[0].Category, "first seen first")
	assertDec(t, "15.75", jan.CategoryExpense("Food"))
	assertDec(t, "0", jan.CategoryExpense("Health"))

	feb := buckets["2025-02"]
	assertDec(t, "7", feb.CategoryExpense(Uncategorized))
}

func TestAggregate_RejectsInvalid(t *testing.T) {
	good := expense("Food", "1", date(2025, 1, 1))

	tests := []struct {
		name   string
		mutate func(*model.Transaction)
		reason string
	}{
		{"unknown kind", func(t *model.Transaction) { t.Kind = "transfer" }, "unknown kind"},
		{"zero date", func(t *model.Transaction) { t.Date = time.Time{} }, "missing date"},
		{"negative amount", func(t *model.Transaction) { t.Amount = dec("-3") }, "negative amount"},
		{"partial installment", func(t *model.Transaction) {
			t.Installment = &model.Installment{Group: "g", Index: 4, Total: 3}
		}, "installment"},
	}
	for _, tt := range tests {
		bad := good
		bad.ID = "bad-one"
		tt.mutate(&bad)

		_, err := Aggregate([]model.Transaction{good, bad})
		require.Error(t, err, tt.name)
		assert.ErrorIs(t, err, ErrInvalidTransaction, tt.name)

		var terr *TransactionError
		require.ErrorAs(t, err, &terr, tt.name)
		assert.Equal(t, "bad-one", terr.ID, tt.name)
		assert.Equal(t, 1, terr.Index, tt.name)
		assert.Contains(t, terr.Reason, tt.reason, tt.name)

		_, err = Compute([]model.Transaction{good, bad}, nil, now)
		assert.ErrorIs(t, err, ErrInvalidTransaction, "%s: Compute should fail too", tt.name)
	}
}

func TestCumulativeBalance_OrderIndependent(t *testing.T) {
	txns := []model.Transaction{
		income("2500", date(2023, 6, 1)),
		expense("Food", "120.10", date(2023, 6, 2)),
		expense("Housing", "900", date(2024, 11, 2)),
		income("300.33", date(2025, 3, 1)),
		expense("Leisure", "45.67", date(2025, 3, 10)),
		expense("Food", "80", date(2026, 1, 1)),
	}

	want := dec("2500").Add(dec("300.33")).Sub(dec("120.10")).Sub(dec("900")).Sub(dec("45.67")).Sub(dec("80"))
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := append([]model.Transaction(nil), txns...)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		snap, err := Compute(shuffled, nil, now)
		require.NoError(t, err)
		assertDec(t, want.String(), snap.CumulativeBalance, "shuffle %d", i)
	}
}

func TestCurrentAndPreviousMonth(t *testing.T) {
	txns := []model.Transaction{
		income("1000", date(2025, 3, 1)),
		expense("Food", "250", date(2025, 3, 2)),
		expense("Food", "99", date(2025, 2, 28)),
		expense("Food", "1", date(2025, 4, 1)),
	}
	snap, err := Compute(txns, nil, now)
	require.NoError(t, err)

	assertDec(t, "1000", snap.CurrentMonth.Income)
	assertDec(t, "250", snap.CurrentMonth.Expense)
	assertDec(t, "99", snap.PreviousMonth.Expense)
	assertDec(t, "75", snap.SavingsRate)
}

func TestPreviousMonth_YearRollover(t *testing.T) {
	txns := []model.Transaction{
		expense("Food", "42", date(2023, 12, 31)),
		expense("Food", "10", date(2024, 1, 2)),
	}
	snap, err := Compute(txns, nil, date(2024, 1, 15))
	require.NoError(t, err)

	assert.Equal(t, "2024-01", snap.CurrentMonth.Month)
	assert.Equal(t, "2023-12", snap.PreviousMonth.Month)
	assertDec(t, "42", snap.PreviousMonth.Expense)
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		income  string
		expense string
		want    string
	}{
		{"0", "100", "0"},
		{"1000", "0", "100"},
		{"1000", "1500", "-50"},
		{"200", "50", "75"},
	}
	for _, tt := range tests {
		var txns []model.Transaction
		if !dec(tt.income).IsZero() {
			txns = append(txns, income(tt.income, now))
		}
		txns = append(txns, expense("Food", tt.expense, now))

		snap, err := Compute(txns, nil, now)
		require.NoError(t, err)
		assertDec(t, tt.want, snap.SavingsRate, "income %s expense %s", tt.income, tt.expense)
	}
}

func TestTopCategory(t *testing.T) {
	txns := []model.Transaction{
		expense("Transport", "50", now),
		expense("Food", "80", now),
		expense("Leisure", "80", now),
		expense("Housing", "900", date(2025, 2, 1)),
	}
	snap, err := Compute(txns, nil, now)
	require.NoError(t, err)
	assert.Equal(t, "Food", snap.TopCategory.Category, "tie resolves to first seen")
	assertDec(t, "80", snap.TopCategory.Amount)
}

func monthlyExpenses(amounts ...string) []model.Transaction {
	var txns []model.Transaction
	start := date(2024, 10, 10)
	for i, a := range amounts {
		txns = append(txns, expense("Food", a, start.AddDate(0, i, 0)))
	}
	return txns
}

func TestForecast_Increasing(t *testing.T) {
	txns := monthlyExpenses("100", "200", "300")
	snap, err := Compute(txns, nil, date(2024, 12, 20))
	require.NoError(t, err)

	assertDec(t, "100", snap.Slope)
	assert.Equal(t, TrendUp, snap.Trend)
	assertDec(t, "400", snap.Forecast)
}

func TestForecast_Flat(t *testing.T) {
	txns := monthlyExpenses("200", "200", "200")
	snap, err := Compute(txns, nil, date(2024, 12, 20))
	require.NoError(t, err)

	assertDec(t, "0", snap.Slope)
	assert.Equal(t, TrendStable, snap.Trend)
	assertDec(t, "200", snap.Forecast)
}

func TestForecast_Decreasing(t *testing.T) {
	txns := monthlyExpenses("500", "400", "300", "200")
	forecast := New(DefaultOptions()).Predict(mustAggregate(t, txns))

	assertDec(t, "-100", forecast.Slope)
	assert.Equal(t, TrendDown, forecast.Trend)
	assertDec(t, "100", forecast.Amount)
}

func TestForecast_ClampedAtZero(t *testing.T) {
	txns := monthlyExpenses("900", "500", "100")
	forecast := New(DefaultOptions()).Predict(mustAggregate(t, txns))

	assertDec(t, "-400", forecast.Slope)
	assert.Equal(t, TrendDown, forecast.Trend)
	assertDec(t, "0", forecast.Amount)
}

func TestForecast_ShortHistoryUsesMean(t *testing.T) {
	forecast := New(DefaultOptions()).Predict(mustAggregate(t, monthlyExpenses("100", "301")))
	assertDec(t, "200.5", forecast.Amount)
	assert.Equal(t, TrendStable, forecast.Trend)
	assertDec(t, "0", forecast.Slope)

	forecast = New(DefaultOptions()).Predict(mustAggregate(t, monthlyExpenses("75")))
	assertDec(t, "75", forecast.Amount)
	assert.Equal(t, TrendStable, forecast.Trend)
}

func TestForecast_SkipsMonthsWithoutExpense(t *testing.T) {
	txns := []model.Transaction{
		expense("Food", "100", date(2024, 1, 5)),
		income("3000", date(2024, 2, 5)),
		expense("Food", "200", date(2024, 3, 5)),
		expense("Food", "300", date(2024, 6, 5)),
	}
	forecast := New(DefaultOptions()).Predict(mustAggregate(t, txns))

	assert.Equal(t, []string{"2024-01", "2024-03", "2024-06"}, forecast.Months)
	assertDec(t, "100", forecast.Slope)
	assertDec(t, "400", forecast.Amount)
}

func TestForecast_WindowKeepsLastSix(t *testing.T) {
	// Eight months; the first two would flatten the fit if included.
	txns := monthlyExpenses("5000", "5000", "100", "200", "300", "400", "500", "600")
	forecast := New(DefaultOptions()).Predict(mustAggregate(t, txns))

	require.Len(t, forecast.Months, 6)
	assert.Equal(t, "2024-12", forecast.Months[0])
	assertDec(t, "100", forecast.Slope)
	assertDec(t, "700", forecast.Amount)
	assert.Equal(t, TrendUp, forecast.Trend)
}

func TestForecast_TrendThresholdBoundary(t *testing.T) {
	// Slope of exactly 50 is not "up".
	forecast := New(DefaultOptions()).Predict(mustAggregate(t, monthlyExpenses("100", "150", "200")))
	assertDec(t, "50", forecast.Slope)
	assert.Equal(t, TrendStable, forecast.Trend)

	opts := DefaultOptions()
	opts.TrendThreshold = decimal.NewNullDecimal(dec("10"))
	forecast = New(opts).Predict(mustAggregate(t, monthlyExpenses("100", "150", "200")))
	assert.Equal(t, TrendUp, forecast.Trend)
}

func TestForecast_ZeroTrendThreshold(t *testing.T) {
	opts := DefaultOptions()
	opts.TrendThreshold = decimal.NewNullDecimal(decimal.Zero)

	forecast := New(opts).Predict(mustAggregate(t, monthlyExpenses("100", "101", "102")))
	assertDec(t, "1", forecast.Slope)
	assert.Equal(t, TrendUp, forecast.Trend)

	forecast = New(opts).Predict(mustAggregate(t, monthlyExpenses("100", "100", "100")))
	assert.Equal(t, TrendStable, forecast.Trend)
}

func TestLinearFit_Degenerate(t *testing.T) {
	_, _, ok := linearFit([]decimal.Decimal{dec("10")})
	assert.False(t, ok)

	// A single-month regression threshold falls back to the mean.
	opts := DefaultOptions()
	opts.MinRegressionMonths = 1
	forecast := New(opts).Predict(mustAggregate(t, monthlyExpenses("80")))
	assertDec(t, "80", forecast.Amount)
	assert.Equal(t, TrendStable, forecast.Trend)
}

func mustAggregate(t *testing.T, txns []model.Transaction) map[string]MonthBucket {
	t.Helper()
	buckets, err := Aggregate(txns)
	require.NoError(t, err)
	return buckets
}

func TestGoalAlerts(t *testing.T) {
	tests := []struct {
		spent    string
		severity Severity
		kind     AlertKind
		count    int
	}{
		{"150", SeverityDanger, AlertGoalExceeded, 1},
		{"95", SeverityWarning, AlertGoalNear, 1},
		{"50", "", "", 0},
		{"90", "", "", 0},
		{"100", SeverityWarning, AlertGoalNear, 1},
	}
	for _, tt := range tests {
		txns := []model.Transaction{expense("Food", tt.spent, now)}
		alerts, warnings := New(DefaultOptions()).alerts(mustAggregate(t, txns)["2025-03"], goals("Food", "100"), decimal.Zero)

		assert.Empty(t, warnings)
		require.Len(t, alerts, tt.count, "spent %s", tt.spent)
		if tt.count == 0 {
			continue
		}
		a := alerts[0]
		assert.Equal(t, tt.severity, a.Severity, "spent %s", tt.spent)
		assert.Equal(t, tt.kind, a.Kind, "spent %s", tt.spent)
		assert.Equal(t, "Food", a.Category)
		assertDec(t, tt.spent, a.Spent)
		assertDec(t, "100", a.Limit)
	}
}

func TestGoalAlerts_DangerContent(t *testing.T) {
	snap, err := Compute([]model.Transaction{expense("Food", "150", now)}, goals("Food", "100"), now)
	require.NoError(t, err)
	require.Len(t, snap.Alerts, 1)

	a := snap.Alerts[0]
	assert.Equal(t, SeverityDanger, a.Severity)
	assertDec(t, "50", a.Overage)
	assert.Contains(t, a.Message, "Food")
	assert.Contains(t, a.Message, "50.00")
	assert.Contains(t, a.Message, "150.00")
	assert.Contains(t, a.Message, "100.00")
}

func TestGoalAlerts_WarningContent(t *testing.T) {
	snap, err := Compute([]model.Transaction{expense("Food", "95", now)}, goals("Food", "100"), now)
	require.NoError(t, err)
	require.Len(t, snap.Alerts, 1)
	assert.Contains(t, snap.Alerts[0].Message, "90% of goal reached")
	assert.Contains(t, snap.Alerts[0].Message, "95.00")
	assertDec(t, "0", snap.Alerts[0].Overage)
}

func TestGoalAlerts_OrderFollowsGoals(t *testing.T) {
	txns := []model.Transaction{
		expense("Food", "500", now),
		expense("Transport", "95", now),
		expense("Leisure", "300", now),
	}
	g := goals("Transport", "100", "Health", "50", "Leisure", "200", "Food", "400")
	snap, err := Compute(txns, g, now)
	require.NoError(t, err)

	var cats []string
	for _, a := range snap.Alerts {
		if a.Kind != AlertForecastOverrun {
			cats = append(cats, a.Category)
		}
	}
	assert.Equal(t, []string{"Transport", "Leisure", "Food"}, cats)
	assert.Equal(t, SeverityWarning, snap.Alerts[0].Severity)
	assert.Equal(t, SeverityDanger, snap.Alerts[1].Severity)
}

func TestGoalAlerts_MalformedGoalSkipped(t *testing.T) {
	g := model.Goals{
		{Category: "", Limit: dec("10")},
		{Category: "Food", Limit: dec("0")},
		{Category: "Leisure", Limit: dec("-5")},
		{Category: "Transport", Limit: dec("100")},
	}
	txns := []model.Transaction{
		expense("Food", "999", now),
		expense("Transport", "150", now),
	}
	snap, err := Compute(txns, g, now)
	require.NoError(t, err)

	assert.Len(t, snap.Warnings, 3)
	require.Len(t, snap.Alerts, 1)
	assert.Equal(t, "Transport", snap.Alerts[0].Category)
	assertDec(t, "50", snap.Alerts[0].Overage)
}

func TestForecastOverrunAlert(t *testing.T) {
	// History fits flat at 200; March totals 240 (> 230 = 1.15 * 200).
	txns := []model.Transaction{
		expense("Food", "200", date(2024, 12, 1)),
		expense("Food", "200", date(2025, 1, 1)),
		expense("Food", "200", date(2025, 2, 1)),
		expense("Food", "240", date(2025, 3, 1)),
	}
	snap, err := Compute(txns, nil, now)
	require.NoError(t, err)

	// Fit over 200,200,200,240: slope 12, forecast 240, so no overrun.
	assertDec(t, "12", snap.Slope)
	assertDec(t, "240", snap.Forecast)
	assert.Empty(t, snap.Alerts)

	// Same history, but the current month has a large spike.
	txns[3] = expense("Food", "2000", date(2025, 3, 1))
	snap, err = Compute(txns, nil, date(2025, 3, 20))
	require.NoError(t, err)
	// slope = (4*6600 - 6*2600) / (4*14 - 36) = 540; intercept = (2600 - 3240)/4 = -160; next = 2000.
	assertDec(t, "2000", snap.Forecast)
	assert.Empty(t, snap.Alerts, "2000 is not above 1.15 * 2000")
}

func TestForecastOverrunAlert_Raised(t *testing.T) {
	// A later month with low spending pulls the fit down while the current
	// month stays high.
	txns := []model.Transaction{
		expense("Food", "300", date(2025, 1, 1)),
		expense("Food", "600", date(2025, 3, 1)),
		expense("Food", "100", date(2025, 4, 1)),
	}
	snap, err := Compute(txns, nil, now)
	require.NoError(t, err)

	// ys 300,600,100: slope -100, intercept 433.33.., next 133.33..
	assertDec(t, "133.33", snap.Forecast.Round(2))
	assert.False(t, dec("133.33").Equal(snap.Forecast), "forecast keeps full precision")
	require.Len(t, snap.Alerts, 1)
	a := snap.Alerts[0]
	assert.Equal(t, SeverityWarning, a.Severity)
	assert.Equal(t, AlertForecastOverrun, a.Kind)
	assertDec(t, "600", a.Spent)
	assert.True(t, snap.Forecast.Equal(a.Limit))
	assert.Contains(t, a.Message, "15% above forecast")
	assert.Contains(t, a.Message, "600.00")
	assert.Contains(t, a.Message, "133.33")
}

func TestCompute_Idempotent(t *testing.T) {
	txns := []model.Transaction{
		income("3200", date(2025, 1, 5)),
		expense("Food", "410.20", date(2025, 1, 9)),
		expense("Food", "380", date(2025, 2, 9)),
		expense("Leisure", "120", date(2025, 2, 11)),
		expense("Food", "455.55", date(2025, 3, 1)),
		expense("Transport", "60", date(2025, 3, 3)),
		income("3200", date(2025, 3, 5)),
	}
	g := goals("Food", "450", "Transport", "65")

	first, err := Compute(txns, g, now)
	require.NoError(t, err)
	second, err := Compute(txns, g, now)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	require.Len(t, first.Alerts, 2)
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	txns := []model.Transaction{expense("Food", "10", now)}
	g := goals("Food", "5")
	before := txns[0]

	_, err := Compute(txns, g, now)
	require.NoError(t, err)
	assert.Equal(t, before, txns[0])
	assertDec(t, "5", g[0].Limit)
}

func TestOptionsDefaults(t *testing.T) {
	e := New(Options{Window: 3})
	opts := e.Options()
	assert.Equal(t, 3, opts.Window)
	assert.Equal(t, 3, opts.MinRegressionMonths)
	assert.True(t, opts.TrendThreshold.Valid)
	assertDec(t, "50", opts.TrendThreshold.Decimal)
	assertDec(t, "0.9", opts.WarningRatio)
	assertDec(t, "1.15", opts.OverrunRatio)
}
