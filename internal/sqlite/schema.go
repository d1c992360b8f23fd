package sqlite

import "strings"

// createProducts is the products table DDL. Column order, names and
// nullability match data files written by earlier releases.
const createProducts = `CREATE TABLE IF NOT EXISTS products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    price REAL NOT NULL,
    image_uri TEXT,
    description TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`

// columnProbe adds a column that older schema versions lack. There is no
// schema version table: each probe attempts the ALTER and treats a
// duplicate column as already applied.
type columnProbe struct {
	table  string
	column string
	ddl    string
}

// columnProbes run in order after createProducts on every Initialize.
var columnProbes = []columnProbe{
	{
		table:  "products",
		column: "description",
		ddl:    `ALTER TABLE products ADD COLUMN description TEXT;`,
	},
}

// isDuplicateColumn reports whether err is SQLite's "duplicate column name"
// failure from ALTER TABLE ADD COLUMN.
func isDuplicateColumn(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "duplicate column name")
}
