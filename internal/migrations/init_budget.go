package migrations

import "database/sql"

func initBudgetTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE budgets (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			subcategory_id UUID NOT NULL,
			tag_id UUID,
			year INT NOT NULL,
			month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
			amount NUMERIC(12, 2) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		ALTER TABLE ONLY budgets
			ADD CONSTRAINT budgets_subcategory_id_fkey FOREIGN KEY (subcategory_id) REFERENCES subcategories(id);

		ALTER TABLE ONLY budgets
			ADD CONSTRAINT budgets_tag_id_fkey FOREIGN KEY (tag_id) REFERENCES tags(id);

		CREATE UNIQUE INDEX budgets_scope_key
			ON budgets (subcategory_id, COALESCE(tag_id, '00000000-0000-0000-0000-000000000000'::uuid), year, month);
	`)

	return err
}
