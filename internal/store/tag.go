package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/giovannimartelli/AlbertQuackmore/internal/model"
	"github.com/giovannimartelli/AlbertQuackmore/internal/service"
	"github.com/giovannimartelli/AlbertQuackmore/pkg/database"
)

type tagStore struct {
	*database.PostgreSQL
}

var _ service.TagStore = (*tagStore)(nil)

// NewTag returns a new instance of the tag store.
func NewTag(db *database.PostgreSQL) *tagStore {
	return &tagStore{
		db,
	}
}

func (t *tagStore) List(ctx context.Context, subCategoryID string) ([]model.Tag, error) {
	var tags []model.Tag

	err := t.DB.SelectContext(
		ctx,
		&tags,
		"SELECT id, subcategory_id, name, created_at FROM tags WHERE subcategory_id = $1 ORDER BY name ASC;",
		subCategoryID,
	)
	if err != nil {
		return nil, err
	}

	return tags, nil
}

func (t *tagStore) Get(ctx context.Context, tagID string) (*model.Tag, error) {
	var tag model.Tag

	err := t.DB.GetContext(
		ctx,
		&tag,
		"SELECT id, subcategory_id, name, created_at FROM tags WHERE id = $1;",
		tagID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &tag, nil
}

func (t *tagStore) CreateIfNotExists(ctx context.Context, tag *model.Tag) (bool, error) {
	result, err := t.DB.ExecContext(
		ctx,
		`INSERT INTO tags (id, subcategory_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (subcategory_id, LOWER(name)) DO NOTHING;`,
		tag.ID, tag.SubCategoryID, tag.Name,
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
