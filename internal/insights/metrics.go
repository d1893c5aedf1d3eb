package insights

import (
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// NoCategory names the top category when the month has no expenses.
const NoCategory = "none"

var hundred = decimal.NewFromInt(100)

func cumulativeBalance(txns []model.Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, t := range txns {
		switch t.Kind {
		case model.KindIncome:
			balance = balance.Add(t.Amount)
		case model.KindExpense:
			balance = balance.Sub(t.Amount)
		}
	}
	return balance
}

// savingsRate is a percentage; zero when the month has no income.
func savingsRate(b MonthBucket) decimal.Decimal {
	if !b.Income.IsPositive() {
		return decimal.Zero
	}
	return b.Income.Sub(b.Expense).Div(b.Income).Mul(hundred)
}

// topCategory picks the strictly largest total; earlier categories win ties.
func topCategory(b MonthBucket) CategoryTotal {
	top := CategoryTotal{Category: NoCategory, Amount: decimal.Zero}
	for _, ct := range b.ExpenseByCategory {
		if ct.Amount.GreaterThan(top.Amount) {
			top = ct
		}
	}
	return top
}
