package types

import "errors"

// ProductStore is the persistence contract over the products table.
// Implementations own one database connection for their lifetime.
//
// Stores do not validate field values; callers run the validate package
// before Create and Update.
type ProductStore interface {
	// Initialize creates the products table if absent and adds the
	// description column to tables created by older schema versions.
	// Safe to call on every start.
	Initialize() error

	// ListAll returns every product, newest first. An empty table yields an
	// empty slice, not an error.
	ListAll() ([]Product, error)

	// GetByID returns the product with the given id, or nil, nil when no
	// such row exists.
	GetByID(id int64) (*Product, error)

	// Create inserts a product and returns its generated id.
	Create(in ProductInput) (int64, error)

	// Update replaces the mutable fields of the row with the given id and
	// returns the number of rows affected. An unknown id affects zero rows
	// and is not an error.
	Update(id int64, in ProductInput) (int64, error)

	// Delete removes the row with the given id and returns the number of
	// rows affected. An unknown id is not an error.
	Delete(id int64) (int64, error)

	// DeleteAll removes every row. Used for maintenance and tests.
	DeleteAll() (int64, error)

	// Export writes every product to a JSONL file and returns the count.
	Export(path string) (int, error)

	// Import reads a JSONL file and creates one product per record, all in
	// a single transaction. accept may normalize the record and rejects it
	// by returning an error, which aborts the import. Returns the count.
	Import(path string, accept func(*ProductInput) error) (int, error)

	// Close releases the connection. Close is idempotent.
	Close() error
}

// Store errors.
var (
	ErrStoreClosed = errors.New("store is closed")
	ErrNotFound    = errors.New("product not found")
	ErrInvalidID   = errors.New("invalid product ID")
)
