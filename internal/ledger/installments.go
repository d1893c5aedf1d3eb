package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
)

// ErrInstallmentCount is returned for a split into fewer than one part.
var ErrInstallmentCount = errors.New("installment count must be at least 1")

// SplitInstallments spreads base over count consecutive months. Each part
// gets base.Amount / count truncated to cents; the last part absorbs the
// remainder so the parts always sum to base.Amount. All parts share a new
// group ID and receive fresh transaction IDs.
func SplitInstallments(base model.Transaction, count int) ([]model.Transaction, error) {
	if count < 1 {
		return nil, ErrInstallmentCount
	}

	n := decimal.NewFromInt(int64(count))
	part := base.Amount.Div(n).Truncate(2)
	last := base.Amount.Sub(part.Mul(decimal.NewFromInt(int64(count - 1))))

	group := id.NewGroup()
	parts := make([]model.Transaction, count)
	for i := range count {
		t := base
		t.ID = id.New()
		t.Amount = part
		if i == count-1 {
			t.Amount = last
		}
		t.Date = AddMonths(base.Date, i)
		t.Description = fmt.Sprintf("%s (%d/%d)", base.Description, i+1, count)
		t.Installment = &model.Installment{Group: group, Index: i + 1, Total: count}
		parts[i] = t
	}
	return parts, nil
}

// AddMonths moves d forward by n calendar months, clamping the day to the
// end of the target month (Jan 31 + 1 month = Feb 28 or 29).
func AddMonths(d time.Time, n int) time.Time {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).AddDate(0, n, 0)
	lastDay := first.AddDate(0, 1, -1).Day()
	day := d.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}
