package migrations

import "database/sql"

func initCategoryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE categories (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE UNIQUE INDEX categories_name_key ON categories (LOWER(name));
	`)

	return err
}
