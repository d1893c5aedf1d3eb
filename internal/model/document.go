package model

// SchemaVersion is the current document layout version.
const SchemaVersion = 1

// DefaultCurrency is used when a document carries no currency setting.
const DefaultCurrency = "BRL"

// Categories lists the category names offered per kind.
type Categories struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}

// For returns the category list for kind.
func (c Categories) For(kind Kind) []string {
	if kind == KindIncome {
		return c.Income
	}
	return c.Expense
}

// Settings holds presentation preferences.
type Settings struct {
	Currency string `json:"currency"`
}

// Document is the whole persisted state. Stores read and write it as a unit.
type Document struct {
	Version      int           `json:"version"`
	Transactions []Transaction `json:"transactions"`
	Goals        Goals         `json:"goals"`
	Categories   Categories    `json:"categories"`
	Settings     Settings      `json:"settings"`
}

// NewDocument returns the default document shape.
func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize fills fields missing from older documents with defaults.
func (d *Document) Normalize() {
	if d.Version < SchemaVersion {
		d.Version = SchemaVersion
	}
	if d.Transactions == nil {
		d.Transactions = []Transaction{}
	}
	if d.Goals == nil {
		d.Goals = Goals{}
	}
	defaults := DefaultCategories()
	if d.Categories.Income == nil {
		d.Categories.Income = defaults.Income
	}
	if d.Categories.Expense == nil {
		d.Categories.Expense = defaults.Expense
	}
	if d.Settings.Currency == "" {
		d.Settings.Currency = DefaultCurrency
	}
}

// Find returns the index of the transaction with id.
func (d *Document) Find(id string) (int, bool) {
	for i, t := range d.Transactions {
		if t.ID == id {
			return i, true
		}
	}
	return -1, false
}
