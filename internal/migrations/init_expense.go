package migrations

import "database/sql"

func initExpenseTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE expenses (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			subcategory_id UUID NOT NULL,
			tag_id UUID,
			amount NUMERIC(12, 2) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			performer VARCHAR(255) NOT NULL,
			spent_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		ALTER TABLE ONLY expenses
			ADD CONSTRAINT expenses_subcategory_id_fkey FOREIGN KEY (subcategory_id) REFERENCES subcategories(id);

		ALTER TABLE ONLY expenses
			ADD CONSTRAINT expenses_tag_id_fkey FOREIGN KEY (tag_id) REFERENCES tags(id);
	`)

	return err
}
