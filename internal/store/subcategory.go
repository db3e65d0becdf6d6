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

type subCategoryStore struct {
	*database.PostgreSQL
}

var _ service.SubCategoryStore = (*subCategoryStore)(nil)

// NewSubCategory returns a new instance of the subcategory store.
func NewSubCategory(db *database.PostgreSQL) *subCategoryStore {
	return &subCategoryStore{
		db,
	}
}

func (s *subCategoryStore) List(ctx context.Context, categoryID string) ([]model.SubCategory, error) {
	var subCategories []model.SubCategory

	err := s.DB.SelectContext(
		ctx,
		&subCategories,
		"SELECT id, category_id, name, created_at FROM subcategories WHERE category_id = $1 ORDER BY name ASC;",
		categoryID,
	)
	if err != nil {
		return nil, err
	}

	return subCategories, nil
}

func (s *subCategoryStore) Get(ctx context.Context, filter service.GetSubCategoryFilter) (*model.SubCategory, error) {
	stmt := sq.
		StatementBuilder.
		PlaceholderFormat(sq.Dollar).
		Select("id", "category_id", "name", "created_at").
		From("subcategories")

	if filter.ID != "" {
		stmt = stmt.Where(sq.Eq{"id": filter.ID})
	}
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) = LOWER(?)", filter.Name)
	}
	if filter.CategoryID != "" {
		stmt = stmt.Where(sq.Eq{"category_id": filter.CategoryID})
	}

	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get subcategory query: %w", err)
	}

	var subCategory model.SubCategory
	err = s.DB.GetContext(ctx, &subCategory, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &subCategory, nil
}

func (s *subCategoryStore) CreateIfNotExists(ctx context.Context, subCategory *model.SubCategory) (bool, error) {
	result, err := s.DB.ExecContext(
		ctx,
		`INSERT INTO subcategories (id, category_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (category_id, LOWER(name)) DO NOTHING;`,
		subCategory.ID, subCategory.CategoryID, subCategory.Name,
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
