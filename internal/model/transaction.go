package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date layout used for stored and exported dates.
const DateFormat = "2006-01-02"

// Kind classifies a transaction as money in or money out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Installment places a transaction inside a purchase split across months.
type Installment struct {
	Group string
	Index int // 1-based
	Total int
}

// Transaction is a single recorded money movement.
type Transaction struct {
	ID          string
	Kind        Kind
	Category    string
	Amount      decimal.Decimal // never negative; Kind carries the sign
	Description string
	Date        time.Time // calendar date, UTC midnight
	Installment *Installment
}

// Month returns the YYYY-MM key of the transaction date.
func (t Transaction) Month() string {
	return t.Date.Format("2006-01")
}

// IsInstallment reports whether t belongs to an installment group.
func (t Transaction) IsInstallment() bool {
	return t.Installment != nil
}

// NewDate returns the UTC calendar date y-m-d.
func NewDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// jsonTransaction is the stored shape. Amount and Date are kept raw so a
// missing key is distinguishable from a zero value.
type jsonTransaction struct {
	ID               string          `json:"id"`
	Kind             Kind            `json:"type"`
	Category         string          `json:"category"`
	Amount           json.RawMessage `json:"amount"`
	Description      string          `json:"description"`
	Date             *string         `json:"date"`
	InstallmentGroup string          `json:"installmentGroup,omitempty"`
	InstallmentIndex int             `json:"installmentIndex,omitempty"`
	InstallmentTotal int             `json:"installmentTotal,omitempty"`
}

// MarshalJSON writes the amount as a bare number and the date as YYYY-MM-DD.
func (t Transaction) MarshalJSON() ([]byte, error) {
	date := t.Date.Format(DateFormat)
	jt := jsonTransaction{
		ID:          t.ID,
		Kind:        t.Kind,
		Category:    t.Category,
		Amount:      json.RawMessage(t.Amount.String()),
		Description: t.Description,
		Date:        &date,
	}
	if t.Installment != nil {
		jt.InstallmentGroup = t.Installment.Group
		jt.InstallmentIndex = t.Installment.Index
		jt.InstallmentTotal = t.Installment.Total
	}
	return json.Marshal(jt)
}

// UnmarshalJSON rejects records with a missing or malformed amount or date
// rather than defaulting them.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var jt jsonTransaction
	if err := json.Unmarshal(data, &jt); err != nil {
		return err
	}
	if len(jt.Amount) == 0 || string(jt.Amount) == "null" {
		return fmt.Errorf("transaction %q: missing amount", jt.ID)
	}
	var amount decimal.Decimal
	if err := amount.UnmarshalJSON(jt.Amount); err != nil {
		return fmt.Errorf("transaction %q: parsing amount %s: %w", jt.ID, jt.Amount, err)
	}
	if jt.Date == nil {
		return fmt.Errorf("transaction %q: missing date", jt.ID)
	}
	date, err := ParseDate(*jt.Date)
	if err != nil {
		return fmt.Errorf("transaction %q: %w", jt.ID, err)
	}

	*t = Transaction{
		ID:          jt.ID,
		Kind:        jt.Kind,
		Category:    jt.Category,
		Amount:      amount,
		Description: jt.Description,
		Date:        date,
	}
	if jt.InstallmentGroup != "" || jt.InstallmentIndex != 0 || jt.InstallmentTotal != 0 {
		t.Installment = &Installment{
			Group: jt.InstallmentGroup,
			Index: jt.InstallmentIndex,
			Total: jt.InstallmentTotal,
		}
	}
	return nil
}

// ErrInstallmentFields is returned when installment fields are partially set
// or out of range.
var ErrInstallmentFields = errors.New("installment fields must be all set with 1 <= index <= total")

// CheckInstallment validates the installment invariant on t.
func (t Transaction) CheckInstallment() error {
	in := t.Installment
	if in == nil {
		return nil
	}
	if in.Group == "" || in.Total < 1 || in.Index < 1 || in.Index > in.Total {
		return ErrInstallmentFields
	}
	return nil
}
