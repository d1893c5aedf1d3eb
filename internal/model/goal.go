package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Goal is a monthly spending ceiling for one expense category.
type Goal struct {
	Category string
	Limit    decimal.Decimal
}

// Goals keeps goals in insertion order. Stored as a JSON object whose key
// order is preserved across load and save.
type Goals []Goal

// Get returns the limit for category.
func (g Goals) Get(category string) (decimal.Decimal, bool) {
	for _, goal := range g {
		if goal.Category == category {
			return goal.Limit, true
		}
	}
	return decimal.Zero, false
}

// Set overwrites the limit for category in place, or appends a new goal.
func (g Goals) Set(category string, limit decimal.Decimal) Goals {
	for i := range g {
		if g[i].Category == category {
			out := append(Goals(nil), g...)
			out[i].Limit = limit
			return out
		}
	}
	return append(append(Goals(nil), g...), Goal{Category: category, Limit: limit})
}

// Remove drops the goal for category, if any.
func (g Goals) Remove(category string) Goals {
	out := make(Goals, 0, len(g))
	for _, goal := range g {
		if goal.Category != category {
			out = append(out, goal)
		}
	}
	return out
}

// MarshalJSON writes {"Food": 100, ...} in slice order.
func (g Goals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, goal := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(goal.Category)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(goal.Limit.String())
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object keeping key order.
func (g *Goals) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*g = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading goals: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("goals must be an object, got %v", tok)
	}

	out := Goals{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading goal key: %w", err)
		}
		category, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("reading goal %q: %w", category, err)
		}
		var limit decimal.Decimal
		if err := limit.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("goal %q: parsing limit %s: %w", category, raw, err)
		}
		out = out.Set(category, limit)
	}
	*g = out
	return nil
}
