// Package sqlite implements the SQLite storage backend for storekeeper.
// A Store owns one connection to the database file and serves CRUD over the
// products table.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/storekeeper/internal/logging"
	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// Compile-time interface check: Store must implement ProductStore.
var _ types.ProductStore = (*Store)(nil)

// Store implements types.ProductStore on an embedded SQLite database.
// Reads share mu; writes hold it exclusively so at most one write runs at
// a time.
type Store struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
	log  logrus.FieldLogger
}

// Open opens (creating if needed) the database file at path. The parent
// directory is created when missing. Call Initialize before use and Close
// when done. A nil logger discards output.
func Open(path string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		log = logging.Discard()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// One connection: SQLite serializes disk access and ":memory:"
	// databases exist per connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	return &Store{
		db:   db,
		path: path,
		log:  log.WithField("db", path),
	}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Initialize creates the products table if absent, then runs the column
// probes that upgrade tables written by older schema versions. Initialize is
// idempotent.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return types.ErrStoreClosed
	}

	if _, err := s.db.Exec(createProducts); err != nil {
		s.log.WithError(err).Error("initializing database")
		return fmt.Errorf("create products table: %w", err)
	}

	for _, p := range columnProbes {
		_, err := s.db.Exec(p.ddl)
		switch {
		case err == nil:
			s.log.WithField("column", p.column).Info("added column to existing table")
		case isDuplicateColumn(err):
			s.log.WithField("column", p.column).Debug("column already present")
		default:
			s.log.WithError(err).WithField("column", p.column).Error("adding column")
			return fmt.Errorf("add column %s.%s: %w", p.table, p.column, err)
		}
	}

	s.log.Debug("database initialized")
	return nil
}

// Close releases the connection. After Close every operation returns
// types.ErrStoreClosed. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
