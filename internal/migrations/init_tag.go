package migrations

import "database/sql"

func initTagTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE tags (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			subcategory_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		ALTER TABLE ONLY tags
			ADD CONSTRAINT tags_subcategory_id_fkey FOREIGN KEY (subcategory_id) REFERENCES subcategories(id);

		CREATE UNIQUE INDEX tags_subcategory_id_name_key ON tags (subcategory_id, LOWER(name));
	`)

	return err
}
