package insights

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Uncategorized is the category expenses without one are counted under.
const Uncategorized = model.Uncategorized

// ErrInvalidTransaction is matched by every TransactionError.
var ErrInvalidTransaction = errors.New("invalid transaction")

// TransactionError identifies the record the aggregator refused.
type TransactionError struct {
	Index  int
	ID     string
	Reason string
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("transaction %d [%s]: %s", e.Index, e.ID, e.Reason)
}

func (e *TransactionError) Unwrap() error { return ErrInvalidTransaction }

// CategoryTotal is an amount aggregated under one category name.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
}

// MonthBucket holds the totals of one calendar month.
type MonthBucket struct {
	Month   string // YYYY-MM
	Income  decimal.Decimal
	Expense decimal.Decimal
	// ExpenseByCategory is ordered by first appearance in the input.
	ExpenseByCategory []CategoryTotal
}

// CategoryExpense returns the expense total for category, zero if unused.
func (b MonthBucket) CategoryExpense(category string) decimal.Decimal {
	for _, ct := range b.ExpenseByCategory {
		if ct.Category == category {
			return ct.Amount
		}
	}
	return decimal.Zero
}

// Balance is income minus expense for the month.
func (b MonthBucket) Balance() decimal.Decimal {
	return b.Income.Sub(b.Expense)
}

func (b *MonthBucket) addExpense(category string, amount decimal.Decimal) {
	b.Expense = b.Expense.Add(amount)
	for i := range b.ExpenseByCategory {
		if b.ExpenseByCategory[i].Category == category {
			b.ExpenseByCategory[i].Amount = b.ExpenseByCategory[i].Amount.Add(amount)
			return
		}
	}
	b.ExpenseByCategory = append(b.ExpenseByCategory, CategoryTotal{Category: category, Amount: amount})
}

func emptyBucket(month string) MonthBucket {
	return MonthBucket{Month: month, Income: decimal.Zero, Expense: decimal.Zero}
}

// Aggregate partitions txns into month buckets keyed by YYYY-MM. It stops
// at the first transaction that fails validation.
func Aggregate(txns []model.Transaction) (map[string]MonthBucket, error) {
	buckets := make(map[string]*MonthBucket)
	for i, t := range txns {
		if err := check(i, t); err != nil {
			return nil, err
		}

		key := t.Month()
		b, ok := buckets[key]
		if !ok {
			nb := emptyBucket(key)
			b = &nb
			buckets[key] = b
		}

		switch t.Kind {
		case model.KindIncome:
			b.Income = b.Income.Add(t.Amount)
		case model.KindExpense:
			category := t.Category
			if category == "" {
				category = Uncategorized
			}
			b.addExpense(category, t.Amount)
		}
	}

	out := make(map[string]MonthBucket, len(buckets))
	for k, b := range buckets {
		out[k] = *b
	}
	return out, nil
}

// Months returns the bucket keys in chronological order.
func Months(buckets map[string]MonthBucket) []string {
	return slices.Sorted(maps.Keys(buckets))
}

func check(i int, t model.Transaction) error {
	fail := func(format string, args ...any) error {
		return &TransactionError{Index: i, ID: t.ID, Reason: fmt.Sprintf(format, args...)}
	}
	if !t.Kind.Valid() {
		return fail("unknown kind %q", t.Kind)
	}
	if t.Date.IsZero() {
		return fail("missing date")
	}
	if t.Amount.IsNegative() {
		return fail("negative amount %s", t.Amount)
	}
	if err := t.CheckInstallment(); err != nil {
		return fail("%v", err)
	}
	return nil
}
