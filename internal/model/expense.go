package model

import "time"

// Expense represents a single recorded expense. An expense always
// references a subcategory and optionally a tag belonging to that same
// subcategory.
type Expense struct {
	ID            string  `db:"id"`
	SubCategoryID string  `db:"subcategory_id"`
	TagID         *string `db:"tag_id"`

	Amount      string `db:"amount"`
	Description string `db:"description"`
	Notes       string `db:"notes"`

	// Performer is the username of the user who recorded the expense.
	Performer string `db:"performer"`

	SpentAt   time.Time `db:"spent_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Budget represents a planned monthly amount for a subcategory,
// optionally narrowed down to a tag. Budgets are created in bulk by the
// spreadsheet import.
type Budget struct {
	ID            string  `db:"id"`
	SubCategoryID string  `db:"subcategory_id"`
	TagID         *string `db:"tag_id"`

	Year   int    `db:"year"`
	Month  int    `db:"month"`
	Amount string `db:"amount"`

	CreatedAt time.Time `db:"created_at"`
}
