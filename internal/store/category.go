package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/internal/service"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/database"
)

type categoryStore struct {
	*database.PostgreSQL
}

var _ service.CategoryStore = (*categoryStore)(nil)

// NewCategory returns a new instance of the category store.
func NewCategory(db *database.PostgreSQL) *categoryStore {
	return &categoryStore{
		db,
	}
}

func (c *categoryStore) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category

	err := c.DB.SelectContext(
		ctx,
		&categories,
		"SELECT id, name, created_at FROM categories ORDER BY name ASC;",
	)
	if err != nil {
		return nil, err
	}

	return categories, nil
}

func (c *categoryStore) Get(ctx context.Context, filter service.GetCategoryFilter) (*model.Category, error) {
	stmt := sq.
		StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("id", "name", "created_at").
		From("categories")

	if filter.ID != "" {
		stmt = stmt.Where(sq.Eq{"id": filter.ID})
	}
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) = LOWER(?)", filter.Name)
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get category query: %w", err)
	}

	var category model.Category
	err = c.DB.GetContext(ctx, &category, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &category, nil
}

func (c *categoryStore) CreateIfNotExists(ctx context.Context, category *model.Category) (bool, error) {
	result, err := c.DB.ExecContext(
		ctx,
		`INSERT INTO categories (id, name)
		VALUES ($1, $2)
		ON CONFLICT (LOWER(name)) DO NOTHING;`,
		category.ID, category.Name,
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
