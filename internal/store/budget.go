package store

import (
	"context"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/internal/service"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/database"
)

type budgetStore struct {
	*database.PostgreSQL
}

var _ service.BudgetStore = (*budgetStore)(nil)

// NewBudget returns a new instance of the budget store.
func NewBudget(db *database.PostgreSQL) *budgetStore {
	return &budgetStore{
		db,
	}
}

func (b *budgetStore) CreateIfNotExists(ctx context.Context, budget *model.Budget) (bool, error) {
	// tag_id is nullable, the unique index coalesces it so the conflict
	// target has to do the same.
	result, err := b.DB.ExecContext(
		ctx,
		`INSERT INTO budgets (id, subcategory_id, tag_id, year, month, amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subcategory_id, COALESCE(tag_id, '00000000-0000-0000-0000-000000000000'::uuid), year, month) DO NOTHING;`,
		budget.ID,
		budget.SubCategoryID,
		budget.TagID,
		budget.Year,
		budget.Month,
		budget.Amount,
	)
	if err != nil {
		return false, err
	}

	created, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return created != 0, nil
}
