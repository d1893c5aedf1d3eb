// Package auditlog keeps an append-only CSV history of every change made
// to the data directory.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Action names a kind of change.
type Action string

const (
	ActionInit           Action = "init"
	ActionAdd            Action = "add"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionGoalSet        Action = "goal-set"
	ActionGoalRemove     Action = "goal-rm"
	ActionCategoryAdd    Action = "category-add"
	ActionCategoryRemove Action = "category-rm"
	ActionImport         Action = "import"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp     time.Time
	Action        Action
	Details       string
	TransactionID string // empty for changes not tied to one transaction
	CommitHash    string // empty when git is off
}

// Header is the CSV header for audit-log.csv.
const Header = "timestamp,action,details,transaction_id,commit_hash"

const (
	numFields    = 5
	logDir       = "logs"
	logFile      = "logs/audit-log.csv"
	colTimestamp = 0
	colAction    = 1
	colDetails   = 2
	colTxnID     = 3
	colCommit    = 4
)

// Path returns the audit log location inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, logFile)
}

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colAction] = string(e.Action)
	row[colDetails] = e.Details
	row[colTxnID] = e.TransactionID
	row[colCommit] = e.CommitHash
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	return Entry{
		Timestamp:     ts,
		Action:        Action(record[colAction]),
		Details:       record[colDetails],
		TransactionID: record[colTxnID],
		CommitHash:    record[colCommit],
	}, nil
}

// Append writes entries to <dataDir>/logs/audit-log.csv, creating the file
// and header if needed.
func Append(dataDir string, entries []Entry) error {
	if err := os.MkdirAll(filepath.Join(dataDir, logDir), 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := Path(dataDir)
	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("writing audit log: %w", err)
	}
	return f.Close()
}

// Read returns all entries from <dataDir>/logs/audit-log.csv.
// Returns an empty slice if the file does not exist.
func Read(dataDir string) ([]Entry, error) {
	f, err := os.Open(Path(dataDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
