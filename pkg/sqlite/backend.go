// Package sqlite provides the public API for the SQLite product store.
// It exposes the factory function for creating stores while keeping
// implementation details internal.
package sqlite

import (
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storekeeper/internal/sqlite"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// Open opens the database file at path and initializes the products table.
// The caller owns the returned store and should Close it when done.
//
// Example:
//
//	store, err := sqlite.Open("storekeeper.db", logrus.New())
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(path string, log logrus.FieldLogger) (types.ProductStore, error) {
	s, err := sqlite.Open(path, log)
	if err != nil {
		return nil, err
	}
	if err := s.Initialize(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
