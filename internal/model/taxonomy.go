package model

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category represents a top level expense category.
type Category struct {
	ID   string `db:"id"`
	Name string `db:"name"`

	CreatedAt time.Time `db:"created_at"`
}

// GetID returns the category id.
func (c Category) GetID() string {
	return c.ID
}

// GetName returns the category display name.
func (c Category) GetName() string {
	return displayCaser.String(c.Name)
}

// SubCategory represents an expense subcategory. A subcategory always
// belongs to exactly one category.
type SubCategory struct {
	ID         string `db:"id"`
	CategoryID string `db:"category_id"`
	Name       string `db:"name"`

	CreatedAt time.Time `db:"created_at"`
}

// GetID returns the subcategory id.
func (s SubCategory) GetID() string {
	return s.ID
}

// GetName returns the subcategory display name.
func (s SubCategory) GetName() string {
	return displayCaser.String(s.Name)
}

// Tag represents an optional expense tag. A tag always belongs to
// exactly one subcategory.
type Tag struct {
	ID            string `db:"id"`
	SubCategoryID string `db:"subcategory_id"`
	Name          string `db:"name"`

	CreatedAt time.Time `db:"created_at"`
}

// GetID returns the tag id.
func (t Tag) GetID() string {
	return t.ID
}

// GetName returns the tag display name.
func (t Tag) GetName() string {
	return displayCaser.String(t.Name)
}

var displayCaser = cases.Title(language.Italian)
