package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// Header is the CSV header for exported transactions.
const Header = "id,date,kind,category,description,amount,installment_group,installment_index,installment_total"

const (
	numFields    = 9
	colID        = 0
	colDate      = 1
	colKind      = 2
	colCategory  = 3
	colDesc      = 4
	colAmount    = 5
	colGroup     = 6
	colInstIndex = 7
	colInstTotal = 8
)

// ReadTransactions reads all transactions from an exported CSV.
func ReadTransactions(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading transactions CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var txns []model.Transaction
	for i, rec := range records[1:] {
		t, err := UnmarshalTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// WriteTransactions writes transactions to w (including header).
func WriteTransactions(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, t := range txns {
		if err := cw.Write(MarshalTransaction(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = t.ID
	row[colDate] = t.Date.Format(model.DateFormat)
	row[colKind] = string(t.Kind)
	row[colCategory] = t.Category
	row[colDesc] = t.Description
	row[colAmount] = t.Amount.StringFixed(2)

	if t.Installment != nil {
		row[colGroup] = t.Installment.Group
		row[colInstIndex] = strconv.Itoa(t.Installment.Index)
		row[colInstTotal] = strconv.Itoa(t.Installment.Total)
	}
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := model.ParseDate(record[colDate])
	if err != nil {
		return model.Transaction{}, err
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	t := model.Transaction{
		ID:          record[colID],
		Kind:        model.Kind(record[colKind]),
		Category:    record[colCategory],
		Amount:      amount,
		Description: record[colDesc],
		Date:        date,
	}

	if record[colGroup] != "" || record[colInstIndex] != "" || record[colInstTotal] != "" {
		index, err := strconv.Atoi(record[colInstIndex])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing installment_index %q: %w", record[colInstIndex], err)
		}
		total, err := strconv.Atoi(record[colInstTotal])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing installment_total %q: %w", record[colInstTotal], err)
		}
		t.Installment = &model.Installment{Group: record[colGroup], Index: index, Total: total}
	}
	return t, nil
}
