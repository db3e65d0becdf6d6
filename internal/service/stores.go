package service

import (
	"context"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
)

// Stores represents all stores.
type Stores struct {
	Category    CategoryStore
	SubCategory SubCategoryStore
	Tag         TagStore
	Expense     ExpenseStore
	Budget      BudgetStore
}

// CategoryStore provides functionality for work with categories store.
type CategoryStore interface {
	// List returns all categories in alphabetical order.
	List(ctx context.Context) ([]model.Category, error)
	// Get returns a category by filter, nil when not found.
	Get(ctx context.Context, filter GetCategoryFilter) (*model.Category, error)
	// CreateIfNotExists creates a category unless one with the same name
	// already exists. Reports whether a row was created.
	CreateIfNotExists(ctx context.Context, category *model.Category) (bool, error)
}

// GetCategoryFilter represents filters for CategoryStore.Get method.
type GetCategoryFilter struct {
	ID   string
	Name string
}

// SubCategoryStore provides functionality for work with subcategories store.
type SubCategoryStore interface {
	// List returns all subcategories of a category in alphabetical order.
	List(ctx context.Context, categoryID string) ([]model.SubCategory, error)
	// Get returns a subcategory by filter, nil when not found.
	Get(ctx context.Context, filter GetSubCategoryFilter) (*model.SubCategory, error)
	// CreateIfNotExists creates a subcategory unless one with the same
	// name already exists under the same category. Reports whether a row
	// was created.
	CreateIfNotExists(ctx context.Context, subCategory *model.SubCategory) (bool, error)
}

// GetSubCategoryFilter represents filters for SubCategoryStore.Get method.
type GetSubCategoryFilter struct {
	ID         string
	Name       string
	CategoryID string
}

// TagStore provides functionality for work with tags store.
type TagStore interface {
	// List returns all tags of a subcategory in alphabetical order.
	List(ctx context.Context, subCategoryID string) ([]model.Tag, error)
	// Get returns a tag by id, nil when not found.
	Get(ctx context.Context, tagID string) (*model.Tag, error)
	// CreateIfNotExists creates a tag unless one with the same name
	// already exists under the same subcategory. Reports whether a row
	// was created.
	CreateIfNotExists(ctx context.Context, tag *model.Tag) (bool, error)
}

// ExpenseStore provides functionality for work with expenses store.
type ExpenseStore interface {
	// Create creates a new expense in store.
	Create(ctx context.Context, expense *model.Expense) error
}

// BudgetStore provides functionality for work with budgets store.
type BudgetStore interface {
	// CreateIfNotExists creates a budget unless one already exists for
	// the same subcategory, tag, year and month. Reports whether a row
	// was created.
	CreateIfNotExists(ctx context.Context, budget *model.Budget) (bool, error)
}
