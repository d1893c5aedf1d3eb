package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// BankParser parses generic bank statements with date, description and a
// signed amount. Negative amounts are expenses, positive amounts income.
// Extra columns are ignored and column order follows the header.
type BankParser struct{}

// bankDateFormats are tried in order.
var bankDateFormats = []string{model.DateFormat, "02/01/2006"}

// bankNamespace seeds the deterministic IDs given to bank rows.
var bankNamespace = uuid.MustParse("8d2f1c3e-5b7a-4e61-9f0d-2a4c6b8e1d35")

// Format returns the parser name.
func (p *BankParser) Format() string { return "bank" }

// Parse reads a bank CSV. Each row gets an ID derived from its content and
// its occurrence number, so re-importing a statement is a no-op while two
// identical purchases on one day both survive.
func (p *BankParser) Parse(r io.Reader, opts Options) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading bank CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	cols, err := bankColumns(records[0])
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	var txns []model.Transaction
	for i, rec := range records[1:] {
		txn, err := parseBankRow(rec, cols, opts)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		key := strings.Join([]string{txn.Date.Format(model.DateFormat), txn.Description, string(txn.Kind), txn.Amount.String()}, "|")
		seen[key]++
		txn.ID = uuid.NewSHA1(bankNamespace, fmt.Appendf(nil, "%s|%d", key, seen[key])).String()
		txns = append(txns, txn)
	}
	return txns, nil
}

type bankCols struct {
	date, desc, amount int
}

func bankColumns(header []string) (bankCols, error) {
	cols := bankCols{date: -1, desc: -1, amount: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			cols.date = i
		case "description":
			cols.desc = i
		case "amount":
			cols.amount = i
		}
	}
	if cols.date < 0 || cols.desc < 0 || cols.amount < 0 {
		return cols, fmt.Errorf("bank CSV header must contain date, description and amount, got %q", strings.Join(header, ","))
	}
	return cols, nil
}

func parseBankRow(rec []string, cols bankCols, opts Options) (model.Transaction, error) {
	if len(rec) <= max(cols.date, cols.desc, cols.amount) {
		return model.Transaction{}, fmt.Errorf("expected at least %d fields, got %d", max(cols.date, cols.desc, cols.amount)+1, len(rec))
	}

	date, err := parseBankDate(strings.TrimSpace(rec[cols.date]))
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := parseBankAmount(rec[cols.amount])
	if err != nil {
		return model.Transaction{}, err
	}
	if amount.IsZero() {
		return model.Transaction{}, fmt.Errorf("amount is zero")
	}

	kind := model.KindIncome
	if amount.IsNegative() {
		kind = model.KindExpense
	}

	return model.Transaction{
		Kind:        kind,
		Category:    defaultCategory(opts),
		Amount:      amount.Abs(),
		Description: strings.TrimSpace(rec[cols.desc]),
		Date:        date,
	}, nil
}

func parseBankDate(s string) (time.Time, error) {
	for _, layout := range bankDateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing date %q: want YYYY-MM-DD or DD/MM/YYYY", s)
}

// parseBankAmount accepts 1234.56 and, when no dot is present, the comma
// decimal form 1234,56.
func parseBankAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return amount, nil
}
