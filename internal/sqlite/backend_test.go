// Tests for opening, initializing and closing the SQLite store.
package sqlite

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// setupStore opens and initializes a Store in a temp directory and closes
// it when the test ends.
func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "storekeeper.db"), nil)
	require.NoError(t, err)
	require.NoError(t, s.Initialize())
	t.Cleanup(func() { s.Close() })
	return s
}

// tableColumns returns the products column names in declaration order.
func tableColumns(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("PRAGMA table_info(products)")
	require.NoError(t, err)
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid       int
			name      string
			colType   string
			notNull   int
			dfltValue sql.NullString
			pk        int
		)
		require.NoError(t, rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk))
		cols = append(cols, name)
	}
	require.NoError(t, rows.Err())
	return cols
}

func TestOpen_CreatesDatabaseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "storekeeper.db")

	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Initialize())

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file should exist")
	assert.Equal(t, path, s.Path())
}

func TestInitialize_CreatesSchema(t *testing.T) {
	s := setupStore(t)

	assert.Equal(t,
		[]string{"id", "name", "quantity", "price", "image_uri", "description", "created_at"},
		tableColumns(t, s.db))
}

func TestInitialize_Idempotent(t *testing.T) {
	s := setupStore(t)

	_, err := s.Create(types.ProductInput{Name: "Widget", Quantity: 1, Price: 1})
	require.NoError(t, err)

	require.NoError(t, s.Initialize())
	require.NoError(t, s.Initialize())

	var tables int
	require.NoError(t, s.db.QueryRow(
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'products'").Scan(&tables))
	assert.Equal(t, 1, tables)
	assert.Len(t, tableColumns(t, s.db), 7)

	products, err := s.ListAll()
	require.NoError(t, err)
	assert.Len(t, products, 1, "re-initializing must not touch rows")
}

func TestInitialize_AddsDescriptionToLegacyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Write a database from the schema version that predates description.
	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = legacy.Exec(`CREATE TABLE products (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    quantity INTEGER NOT NULL,
    price REAL NOT NULL,
    image_uri TEXT,
    created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	_, err = legacy.Exec("INSERT INTO products (name, quantity, price, image_uri) VALUES ('Old stock', 4, 2.5, 'file:///old.png')")
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	s, err := Open(path, nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Initialize())
	assert.Contains(t, tableColumns(t, s.db), "description")

	// A second start finds the column present and swallows the probe failure.
	require.NoError(t, s.Initialize())

	products, err := s.ListAll()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Old stock", products[0].Name)
	assert.Equal(t, int64(4), products[0].Quantity)
	assert.Equal(t, 2.5, products[0].Price)
	assert.Nil(t, products[0].Description)
	assert.Equal(t, "file:///old.png", types.StringValue(products[0].ImageURI))

	desc := "now described"
	n, err := s.Update(products[0].ID, types.ProductInput{Name: "Old stock", Quantity: 4, Price: 2.5, Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestIsDuplicateColumn(t *testing.T) {
	assert.True(t, isDuplicateColumn(errors.New("SQL logic error: duplicate column name: description (1)")))
	assert.False(t, isDuplicateColumn(errors.New("no such table: products")))
	assert.False(t, isDuplicateColumn(nil))
}

func TestClose(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "storekeeper.db"), nil)
	require.NoError(t, err)
	require.NoError(t, s.Initialize())

	require.NoError(t, s.Close())
	require.NoError(t, s.Close(), "Close should be idempotent")

	_, err = s.ListAll()
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	_, err = s.GetByID(1)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	_, err = s.Create(types.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	_, err = s.Update(1, types.ProductInput{Name: "x"})
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	_, err = s.Delete(1)
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	_, err = s.DeleteAll()
	assert.ErrorIs(t, err, types.ErrStoreClosed)
	assert.ErrorIs(t, s.Initialize(), types.ErrStoreClosed)
}

func TestStorageErrorsPropagate(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "storekeeper.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	// No Initialize: the table does not exist.
	_, err = s.ListAll()
	assert.Error(t, err)
	_, err = s.Create(types.ProductInput{Name: "Widget", Quantity: 1, Price: 1})
	assert.Error(t, err)
}
