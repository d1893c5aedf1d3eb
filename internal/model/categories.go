package model

// Uncategorized is the category used for records that carry none.
const Uncategorized = "Other"

// DefaultCategories returns the category lists seeded into a new document.
func DefaultCategories() Categories {
	return Categories{
		Income: []string{
			"Salary",
			"Freelance",
			"Investments",
			"Other",
		},
		Expense: []string{
			"Food",
			"Housing",
			"Transport",
			"Health",
			"Education",
			"Leisure",
			"Shopping",
			"Other",
		},
	}
}
