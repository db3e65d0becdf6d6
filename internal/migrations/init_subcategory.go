package migrations

import "database/sql"

func initSubCategoryTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE subcategories (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			category_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		ALTER TABLE ONLY subcategories
			ADD CONSTRAINT subcategories_category_id_fkey FOREIGN KEY (category_id) REFERENCES categories(id);

		CREATE UNIQUE INDEX subcategories_category_id_name_key ON subcategories (category_id, LOWER(name));
	`)

	return err
}
