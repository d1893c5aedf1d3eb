package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/model"
)

func purchase(amount string, when time.Time) model.Transaction {
	return model.Transaction{
		ID:          "orig",
		Kind:        model.KindExpense,
		Category:    "Shopping",
		Amount:      dec(amount),
		Description: "Laptop",
		Date:        when,
	}
}

func TestSplitInstallments_SumInvariant(t *testing.T) {
	tests := []struct {
		amount string
		count  int
		part   string
		last   string
	}{
		{"100.00", 3, "33.33", "33.34"},
		{"100.00", 4, "25.00", "25.00"},
		{"0.05", 3, "0.01", "0.03"},
		{"999.99", 7, "142.85", "142.89"},
		{"10.00", 1, "10.00", "10.00"},
	}
	for _, tt := range tests {
		parts, err := SplitInstallments(purchase(tt.amount, date(2025, 1, 10)), tt.count)
		require.NoError(t, err)
		require.Len(t, parts, tt.count)

		sum := decimal.Zero
		for _, p := range parts {
			sum = sum.Add(p.Amount)
		}
		assert.True(t, sum.Equal(dec(tt.amount)), "%s/%d: parts sum to %s", tt.amount, tt.count, sum)
		assert.True(t, parts[0].Amount.Equal(dec(tt.part)), "%s/%d: first part %s", tt.amount, tt.count, parts[0].Amount)
		assert.True(t, parts[tt.count-1].Amount.Equal(dec(tt.last)), "%s/%d: last part %s", tt.amount, tt.count, parts[tt.count-1].Amount)
	}
}

func TestSplitInstallments_SharedGroup(t *testing.T) {
	parts, err := SplitInstallments(purchase("300", date(2025, 1, 10)), 3)
	require.NoError(t, err)

	group := parts[0].Installment.Group
	require.NotEmpty(t, group)
	ids := map[string]bool{}
	for i, p := range parts {
		require.NotNil(t, p.Installment)
		assert.Equal(t, group, p.Installment.Group)
		assert.Equal(t, i+1, p.Installment.Index)
		assert.Equal(t, 3, p.Installment.Total)
		assert.NoError(t, p.CheckInstallment())
		assert.NotEqual(t, "orig", p.ID)
		ids[p.ID] = true
		assert.Equal(t, model.KindExpense, p.Kind)
		assert.Equal(t, "Shopping", p.Category)
	}
	assert.Len(t, ids, 3, "each installment gets its own ID")
	assert.Equal(t, "Laptop (1/3)", parts[0].Description)
	assert.Equal(t, "Laptop (3/3)", parts[2].Description)

	doc := model.NewDocument()
	doc.Transactions = parts
	assert.Empty(t, ValidateDocument(doc))
}

func TestSplitInstallments_Dates(t *testing.T) {
	parts, err := SplitInstallments(purchase("400", date(2024, 1, 31)), 4)
	require.NoError(t, err)

	want := []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2024, 3, 31), date(2024, 4, 30)}
	for i, p := range parts {
		assert.True(t, want[i].Equal(p.Date), "part %d: want %s, got %s", i+1, want[i].Format(model.DateFormat), p.Date.Format(model.DateFormat))
	}

	parts, err = SplitInstallments(purchase("200", date(2024, 11, 15)), 3)
	require.NoError(t, err)
	assert.Equal(t, "2025-01", parts[2].Month())
}

func TestSplitInstallments_InvalidCount(t *testing.T) {
	_, err := SplitInstallments(purchase("10", date(2025, 1, 1)), 0)
	assert.ErrorIs(t, err, ErrInstallmentCount)
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, date(2023, 2, 28), AddMonths(date(2023, 1, 31), 1))
	assert.Equal(t, date(2024, 12, 31), AddMonths(date(2024, 12, 31), 0))
	assert.Equal(t, date(2025, 2, 28), AddMonths(date(2024, 12, 31), 2))
	assert.Equal(t, date(2024, 10, 31), AddMonths(date(2025, 1, 31), -3))
}
