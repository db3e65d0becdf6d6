package store

import (
	"context"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/internal/service"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/database"
)

type expenseStore struct {
	*database.PostgreSQL
}

var _ service.ExpenseStore = (*expenseStore)(nil)

// NewExpense returns a new instance of the expense store.
func NewExpense(db *database.PostgreSQL) *expenseStore {
	return &expenseStore{
		db,
	}
}

func (e *expenseStore) Create(ctx context.Context, expense *model.Expense) error {
	_, err := e.DB.ExecContext(
		ctx,
		`INSERT INTO expenses (id, subcategory_id, tag_id, amount, description, notes, performer, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		expense.ID,
		expense.SubCategoryID,
		expense.TagID,
		expense.Amount,
		expense.Description,
		expense.Notes,
		expense.Performer,
		expense.SpentAt,
	)

	return err
}
