package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// New returns a fresh transaction ID.
func New() string {
	return uuid.NewString()
}

// NewGroup returns a fresh installment group ID.
func NewGroup() string {
	return "grp-" + uuid.NewString()
}

// FormatMonthKey returns a month key like "2025-01".
func FormatMonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// MonthKey returns the month key of t.
func MonthKey(t time.Time) string {
	return FormatMonthKey(t.Year(), t.Month())
}

// PrevMonthKey returns the key of the month before t's month.
// January rolls back to December of the previous year.
func PrevMonthKey(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return MonthKey(first.AddDate(0, -1, 0))
}

// ParseMonthKey parses "2025-01" into year and month.
func ParseMonthKey(key string) (year int, month time.Month, err error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid month key format: %q", key)
	}

	year, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year in month key %q: %w", key, err)
	}

	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month in month key %q: %w", key, err)
	}
	if m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("month out of range in month key %q", key)
	}

	return year, time.Month(m), nil
}

// MatchPrefix returns the single ID in ids that starts with prefix.
// An exact match always wins.
func MatchPrefix(ids []string, prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty ID")
	}
	var found []string
	for _, candidate := range ids {
		if candidate == prefix {
			return candidate, nil
		}
		if strings.HasPrefix(candidate, prefix) {
			found = append(found, candidate)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("no transaction matches %q", prefix)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("ambiguous ID %q matches %d transactions", prefix, len(found))
	}
}
