// Package ledger records transactions, goals and categories in the finance
// document. Every mutation loads the whole document, applies the change,
// validates the result and saves it back.
package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrInvalidAmount     = errors.New("amount must be positive")
)

// DocumentStore loads and saves the whole document.
type DocumentStore interface {
	Load() (*model.Document, error)
	Save(doc *model.Document) error
}

// Service provides business logic over the stored document.
type Service struct {
	store DocumentStore
	now   func() time.Time
}

// NewService creates a ledger Service.
func NewService(store DocumentStore) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock sets the clock used for default transaction dates.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Document loads the current document.
func (s *Service) Document() (*model.Document, error) {
	doc, err := s.store.Load()
	if err != nil {
		return nil, fmt.Errorf("loading document: %w", err)
	}
	return doc, nil
}

func (s *Service) mutate(fn func(doc *model.Document) error) error {
	doc, err := s.Document()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}

	if verrs := ValidateDocument(doc); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
	}

	if err := s.store.Save(doc); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// AddParams holds the fields of a new transaction.
type AddParams struct {
	Kind        model.Kind
	Category    string
	Amount      decimal.Decimal
	Description string
	Date        time.Time // zero means today
	// Installments splits the amount over that many months when > 1.
	Installments int
}

// Add records a transaction, or an installment group when
// params.Installments > 1, and returns what was stored.
func (s *Service) Add(params AddParams) ([]model.Transaction, error) {
	if !params.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidAmount, params.Amount)
	}
	date := params.Date
	if date.IsZero() {
		n := s.now()
		date = model.NewDate(n.Year(), n.Month(), n.Day())
	}

	var created []model.Transaction
	err := s.mutate(func(doc *model.Document) error {
		category, ok := lookupCategory(doc.Categories.For(params.Kind), params.Category)
		if !ok {
			return fmt.Errorf("%w %q for %s", ErrUnknownCategory, params.Category, params.Kind)
		}

		base := model.Transaction{
			ID:          id.New(),
			Kind:        params.Kind,
			Category:    category,
			Amount:      params.Amount,
			Description: strings.TrimSpace(params.Description),
			Date:        date,
		}
		created = []model.Transaction{base}
		if params.Installments > 1 {
			parts, err := SplitInstallments(base, params.Installments)
			if err != nil {
				return err
			}
			created = parts
		}
		doc.Transactions = append(doc.Transactions, created...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddInstallments records params as count monthly installments.
func (s *Service) AddInstallments(params AddParams, count int) ([]model.Transaction, error) {
	if count < 1 {
		return nil, ErrInstallmentCount
	}
	params.Installments = count
	return s.Add(params)
}

// Transactions returns every recorded transaction in stored order.
func (s *Service) Transactions() ([]model.Transaction, error) {
	doc, err := s.Document()
	if err != nil {
		return nil, err
	}
	return doc.Transactions, nil
}

// UpdateParams lists the fields to change; nil fields are kept.
type UpdateParams struct {
	Kind        *model.Kind
	Category    *string
	Amount      *decimal.Decimal
	Description *string
	Date        *time.Time
}

// Update edits the transaction with txnID in place. Installment placement
// is never changed by an update.
func (s *Service) Update(txnID string, params UpdateParams) (model.Transaction, error) {
	if params.Amount != nil && !params.Amount.IsPositive() {
		return model.Transaction{}, fmt.Errorf("%w: got %s", ErrInvalidAmount, *params.Amount)
	}

	var updated model.Transaction
	err := s.mutate(func(doc *model.Document) error {
		i, ok := doc.Find(txnID)
		if !ok {
			return fmt.Errorf("transaction %s: %w", txnID, ErrNotFound)
		}
		t := doc.Transactions[i]

		if params.Kind != nil {
			t.Kind = *params.Kind
		}
		if params.Category != nil || params.Kind != nil {
			want := t.Category
			if params.Category != nil {
				want = *params.Category
			}
			category, ok := lookupCategory(doc.Categories.For(t.Kind), want)
			if !ok {
				return fmt.Errorf("%w %q for %s", ErrUnknownCategory, want, t.Kind)
			}
			t.Category = category
		}
		if params.Amount != nil {
			t.Amount = *params.Amount
		}
		if params.Description != nil {
			t.Description = strings.TrimSpace(*params.Description)
		}
		if params.Date != nil {
			t.Date = *params.Date
		}

		doc.Transactions[i] = t
		updated = t
		return nil
	})
	return updated, err
}

// Delete removes the transaction with txnID.
func (s *Service) Delete(txnID string) (model.Transaction, error) {
	var removed model.Transaction
	err := s.mutate(func(doc *model.Document) error {
		i, ok := doc.Find(txnID)
		if !ok {
			return fmt.Errorf("transaction %s: %w", txnID, ErrNotFound)
		}
		removed = doc.Transactions[i]
		doc.Transactions = append(doc.Transactions[:i], doc.Transactions[i+1:]...)
		return nil
	})
	return removed, err
}

// DeleteGroup removes every installment of group.
func (s *Service) DeleteGroup(group string) ([]model.Transaction, error) {
	var removed []model.Transaction
	err := s.mutate(func(doc *model.Document) error {
		kept := doc.Transactions[:0]
		for _, t := range doc.Transactions {
			if t.Installment != nil && t.Installment.Group == group {
				removed = append(removed, t)
				continue
			}
			kept = append(kept, t)
		}
		if len(removed) == 0 {
			return fmt.Errorf("installment group %s: %w", group, ErrNotFound)
		}
		doc.Transactions = kept
		return nil
	})
	return removed, err
}

// Resolve expands a unique ID prefix to the full transaction ID.
func (s *Service) Resolve(prefix string) (string, error) {
	doc, err := s.Document()
	if err != nil {
		return "", err
	}
	ids := make([]string, len(doc.Transactions))
	for i, t := range doc.Transactions {
		ids[i] = t.ID
	}
	return id.MatchPrefix(ids, prefix)
}

// SetGoal sets the monthly limit of an expense category.
func (s *Service) SetGoal(category string, limit decimal.Decimal) (string, error) {
	if !limit.IsPositive() {
		return "", fmt.Errorf("%w: got %s", ErrInvalidAmount, limit)
	}
	var name string
	err := s.mutate(func(doc *model.Document) error {
		var ok bool
		name, ok = lookupCategory(doc.Categories.Expense, category)
		if !ok {
			return fmt.Errorf("%w %q for %s", ErrUnknownCategory, category, model.KindExpense)
		}
		doc.Goals = doc.Goals.Set(name, limit)
		return nil
	})
	return name, err
}

// RemoveGoal drops the goal of category.
func (s *Service) RemoveGoal(category string) error {
	return s.mutate(func(doc *model.Document) error {
		for _, g := range doc.Goals {
			if strings.EqualFold(g.Category, strings.TrimSpace(category)) {
				doc.Goals = doc.Goals.Remove(g.Category)
				return nil
			}
		}
		return fmt.Errorf("goal %q: %w", category, ErrNotFound)
	})
}

// AddCategory registers a category for kind and returns its normalized name.
func (s *Service) AddCategory(kind model.Kind, name string) (string, error) {
	normalized := NormalizeCategory(name)
	if normalized == "" {
		return "", fmt.Errorf("%w: empty name", ErrUnknownCategory)
	}
	if !kind.Valid() {
		return "", fmt.Errorf("invalid kind %q", kind)
	}

	err := s.mutate(func(doc *model.Document) error {
		if _, ok := lookupCategory(doc.Categories.For(kind), normalized); ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, normalized)
		}
		if kind == model.KindIncome {
			doc.Categories.Income = append(doc.Categories.Income, normalized)
		} else {
			doc.Categories.Expense = append(doc.Categories.Expense, normalized)
		}
		return nil
	})
	return normalized, err
}

// RemoveCategory unlists a category. Transactions already recorded under
// it keep the name.
func (s *Service) RemoveCategory(kind model.Kind, name string) error {
	return s.mutate(func(doc *model.Document) error {
		list := doc.Categories.For(kind)
		listed, ok := lookupCategory(list, name)
		if !ok {
			return fmt.Errorf("category %q: %w", name, ErrNotFound)
		}
		kept := make([]string, 0, len(list))
		for _, c := range list {
			if c != listed {
				kept = append(kept, c)
			}
		}
		if kind == model.KindIncome {
			doc.Categories.Income = kept
		} else {
			doc.Categories.Expense = kept
		}
		return nil
	})
}

// Import appends txns, assigning IDs to those without one and skipping any
// whose ID is already recorded. Unknown categories are registered.
// Returns the number of transactions added.
func (s *Service) Import(txns []model.Transaction) (int, error) {
	added := 0
	err := s.mutate(func(doc *model.Document) error {
		for _, t := range txns {
			if t.ID == "" {
				t.ID = id.New()
			} else if _, exists := doc.Find(t.ID); exists {
				continue
			}
			if t.Category == "" {
				t.Category = model.Uncategorized
			}
			if listed, ok := lookupCategory(doc.Categories.For(t.Kind), t.Category); ok {
				t.Category = listed
			} else if t.Kind.Valid() {
				t.Category = NormalizeCategory(t.Category)
				if t.Kind == model.KindIncome {
					doc.Categories.Income = append(doc.Categories.Income, t.Category)
				} else {
					doc.Categories.Expense = append(doc.Categories.Expense, t.Category)
				}
			}
			doc.Transactions = append(doc.Transactions, t)
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}
