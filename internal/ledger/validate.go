package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// ValidationError describes a single rule a document breaks.
type ValidationError struct {
	ID          string // transaction ID or goal category
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s [%s]: %s", e.Field, e.ID, e.Description)
}

var hundred = decimal.NewFromInt(100)

// ValidateTransaction checks the rules that hold for a single transaction.
func ValidateTransaction(t model.Transaction) []ValidationError {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{ID: t.ID, Field: field, Description: fmt.Sprintf(format, args...)})
	}

	if t.ID == "" {
		add("id", "missing id")
	}
	if !t.Kind.Valid() {
		add("kind", "kind must be %q or %q, got %q", model.KindIncome, model.KindExpense, t.Kind)
	}
	if t.Category == "" {
		add("category", "missing category")
	}
	if t.Date.IsZero() {
		add("date", "missing date")
	}
	if t.Amount.IsNegative() {
		add("amount", "amount %s is negative", t.Amount)
	}
	// Exact cents: no more than 2 decimal places.
	if !t.Amount.Mul(hundred).Equal(t.Amount.Mul(hundred).Floor()) {
		add("amount", "amount %s has more than 2 decimal places", t.Amount)
	}
	if err := t.CheckInstallment(); err != nil {
		add("installment", "%v", err)
	}
	return errs
}

// ValidateDocument checks every transaction and goal, plus rules that span
// records: unique IDs and consistent installment groups.
func ValidateDocument(doc *model.Document) []ValidationError {
	var errs []ValidationError

	seen := make(map[string]bool, len(doc.Transactions))
	type groupInfo struct {
		total   int
		indexes map[int]bool
	}
	groups := make(map[string]*groupInfo)

	for _, t := range doc.Transactions {
		errs = append(errs, ValidateTransaction(t)...)

		if t.ID != "" {
			if seen[t.ID] {
				errs = append(errs, ValidationError{ID: t.ID, Field: "id", Description: "duplicate id"})
			}
			seen[t.ID] = true
		}

		in := t.Installment
		if in == nil || in.Group == "" {
			continue
		}
		g, ok := groups[in.Group]
		if !ok {
			g = &groupInfo{total: in.Total, indexes: make(map[int]bool)}
			groups[in.Group] = g
		}
		if g.total != in.Total {
			errs = append(errs, ValidationError{
				ID:          t.ID,
				Field:       "installment",
				Description: fmt.Sprintf("group %s has totals %d and %d", in.Group, g.total, in.Total),
			})
		}
		if g.indexes[in.Index] {
			errs = append(errs, ValidationError{
				ID:          t.ID,
				Field:       "installment",
				Description: fmt.Sprintf("group %s repeats index %d", in.Group, in.Index),
			})
		}
		g.indexes[in.Index] = true
	}

	goals := make(map[string]bool, len(doc.Goals))
	for _, g := range doc.Goals {
		if g.Category == "" {
			errs = append(errs, ValidationError{ID: g.Category, Field: "goal", Description: "missing category"})
		}
		if !g.Limit.IsPositive() {
			errs = append(errs, ValidationError{ID: g.Category, Field: "goal", Description: fmt.Sprintf("limit %s must be positive", g.Limit)})
		}
		if goals[g.Category] {
			errs = append(errs, ValidationError{ID: g.Category, Field: "goal", Description: "duplicate goal"})
		}
		goals[g.Category] = true
	}
	return errs
}
