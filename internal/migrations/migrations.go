package migrations

import "github.com/lopezator/migrator"

// Migrations contains all database migrations in apply order.
var Migrations = []any{
	&migrator.MigrationNoTx{
		Name: "Init UUID extension",
		Func: initUUIDExtension,
	},
	&migrator.MigrationNoTx{
		Name: "Init category table",
		Func: initCategoryTable,
	},
	&migrator.MigrationNoTx{
		Name: "Init subcategory table",
		Func: initSubCategoryTable,
	},
	&migrator.MigrationNoTx{
		Name: "Init tag table",
		Func: initTagTable,
	},
	&migrator.MigrationNoTx{
		Name: "Init expense table",
		Func: initExpenseTable,
	},
	&migrator.MigrationNoTx{
		Name: "Init budget table",
		Func: initBudgetTable,
	},
}
