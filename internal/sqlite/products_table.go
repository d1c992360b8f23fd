// This file implements CRUD over the products table.
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

const selectProducts = "SELECT id, name, quantity, price, description, image_uri, created_at FROM products"

// ListAll returns every product, newest first. Rows created within the same
// second are ordered by id, newest first.
func (s *Store) ListAll() ([]types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	rows, err := s.db.Query(selectProducts + " ORDER BY created_at DESC, id DESC")
	if err != nil {
		s.log.WithError(err).Error("fetching products")
		return nil, fmt.Errorf("listing products: %w", err)
	}
	defer rows.Close()

	products := []types.Product{}
	for rows.Next() {
		p, err := hydrateProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	return products, nil
}

// GetByID returns the product with the given id. An unknown id yields
// nil, nil.
func (s *Store) GetByID(id int64) (*types.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, types.ErrStoreClosed
	}

	row := s.db.QueryRow(selectProducts+" WHERE id = ?", id)
	p, err := hydrateProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		s.log.WithError(err).WithField("product_id", id).Error("fetching product by ID")
		return nil, fmt.Errorf("getting product %d: %w", id, err)
	}
	return p, nil
}

// Create inserts a product. The database assigns id and created_at.
func (s *Store) Create(in types.ProductInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, types.ErrStoreClosed
	}

	res, err := s.db.Exec(
		"INSERT INTO products (name, quantity, price, image_uri, description) VALUES (?, ?, ?, ?, ?)",
		in.Name, in.Quantity, in.Price, nullString(in.ImageURI), nullString(in.Description),
	)
	if err != nil {
		s.log.WithError(err).Error("adding product")
		return 0, fmt.Errorf("inserting product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading inserted product id: %w", err)
	}

	s.log.WithField("product_id", id).Info("product added")
	return id, nil
}

// Update replaces every mutable field of the row with the given id. It
// returns the number of rows affected; an unknown id affects zero rows.
func (s *Store) Update(id int64, in types.ProductInput) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, types.ErrStoreClosed
	}

	res, err := s.db.Exec(
		"UPDATE products SET name = ?, quantity = ?, price = ?, image_uri = ?, description = ? WHERE id = ?",
		in.Name, in.Quantity, in.Price, nullString(in.ImageURI), nullString(in.Description), id,
	)
	if err != nil {
		s.log.WithError(err).WithField("product_id", id).Error("updating product")
		return 0, fmt.Errorf("updating product %d: %w", id, err)
	}
	return s.affected(res, "product updated", logrus.Fields{"product_id": id})
}

// Delete removes the row with the given id. An unknown id affects zero rows.
func (s *Store) Delete(id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, types.ErrStoreClosed
	}

	res, err := s.db.Exec("DELETE FROM products WHERE id = ?", id)
	if err != nil {
		s.log.WithError(err).WithField("product_id", id).Error("deleting product")
		return 0, fmt.Errorf("deleting product %d: %w", id, err)
	}
	return s.affected(res, "product deleted", logrus.Fields{"product_id": id})
}

// DeleteAll removes every product. The id sequence is kept, so ids are not
// reused afterwards.
func (s *Store) DeleteAll() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, types.ErrStoreClosed
	}

	res, err := s.db.Exec("DELETE FROM products")
	if err != nil {
		s.log.WithError(err).Error("deleting all products")
		return 0, fmt.Errorf("deleting all products: %w", err)
	}
	return s.affected(res, "all products deleted", nil)
}

func (s *Store) affected(res sql.Result, msg string, fields logrus.Fields) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected: %w", err)
	}
	s.log.WithFields(fields).WithField("rows_affected", n).Info(msg)
	return n, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateProduct scans one products row. sql.ErrNoRows is returned
// unwrapped so callers can test for it.
func hydrateProduct(row scanner) (*types.Product, error) {
	var (
		p           types.Product
		description sql.NullString
		imageURI    sql.NullString
		createdAt   timestamp
	)
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &description, &imageURI, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning product: %w", err)
	}
	if description.Valid {
		p.Description = &description.String
	}
	if imageURI.Valid {
		p.ImageURI = &imageURI.String
	}
	p.CreatedAt = createdAt.Time
	return &p, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

// timestampLayouts covers CURRENT_TIMESTAMP text and the forms the driver
// may hand back for DATETIME columns.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// timestamp scans a created_at value whether the driver returns
// time.Time, text or a Unix epoch.
type timestamp struct {
	Time time.Time
}

func (ts *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.Time = time.Time{}
		return nil
	case time.Time:
		ts.Time = v.UTC()
		return nil
	case int64:
		ts.Time = time.Unix(v, 0).UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("unsupported created_at type %T", src)
	}
}

func (ts *timestamp) parse(s string) error {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t.UTC()
			return nil
		}
	}
	return fmt.Errorf("parsing created_at %q", s)
}
