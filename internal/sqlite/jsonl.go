// This file provides JSONL backup of the products table with atomic
// persistence.
package sqlite

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mesh-intelligence/storekeeper/pkg/types"
)

// readJSONL reads a JSONL file and returns each non-empty, parseable line as
// a json.RawMessage. Malformed lines are skipped.
func readJSONL(path string) ([]json.RawMessage, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		if !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, nil
}

// writeJSONL atomically writes records to a JSONL file using the temp-file,
// fsync, rename pattern.
func writeJSONL(path string, records []json.RawMessage) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".jsonl-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	fail := func(format string, err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf(format, err)
	}

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if _, err := w.Write(rec); err != nil {
			return fail("writing record: %w", err)
		}
		if err := w.WriteByte('\n'); err != nil {
			return fail("writing newline: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fail("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fail("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Export writes every product, newest first, to path as JSONL and returns
// the number written. An existing file is replaced atomically.
func (s *Store) Export(path string) (int, error) {
	products, err := s.ListAll()
	if err != nil {
		return 0, err
	}

	records := make([]json.RawMessage, 0, len(products))
	for _, p := range products {
		data, err := json.Marshal(p)
		if err != nil {
			return 0, fmt.Errorf("marshaling product %d: %w", p.ID, err)
		}
		records = append(records, data)
	}
	if err := writeJSONL(path, records); err != nil {
		return 0, fmt.Errorf("exporting products: %w", err)
	}

	s.log.WithField("file", path).WithField("count", len(records)).Info("products exported")
	return len(records), nil
}

// Import creates one product per JSONL record in path. Records get fresh
// ids and creation times; id and created_at in the file are ignored.
// Records are inserted oldest first so the listing order of an export is
// preserved. accept runs on each decoded record before insert; an error
// from accept, a record that does not decode, or a storage failure rolls
// back the whole import.
func (s *Store) Import(path string, accept func(*types.ProductInput) error) (int, error) {
	records, err := readJSONL(path)
	if err != nil {
		return 0, err
	}

	inputs := make([]types.ProductInput, 0, len(records))
	for i, rec := range records {
		var in types.ProductInput
		if err := json.Unmarshal(rec, &in); err != nil {
			return 0, fmt.Errorf("decoding record %d: %w", i+1, err)
		}
		if accept != nil {
			if err := accept(&in); err != nil {
				return 0, fmt.Errorf("record %d: %w", i+1, err)
			}
		}
		inputs = append(inputs, in)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return 0, types.ErrStoreClosed
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO products (name, quantity, price, image_uri, description) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i := len(inputs) - 1; i >= 0; i-- {
		in := inputs[i]
		if _, err := stmt.Exec(in.Name, in.Quantity, in.Price, nullString(in.ImageURI), nullString(in.Description)); err != nil {
			return 0, fmt.Errorf("inserting record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}

	s.log.WithField("file", path).WithField("count", len(inputs)).Info("products imported")
	return len(inputs), nil
}
