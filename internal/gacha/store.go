package gacha

import (
	"encoding/json"
	"fmt"
	"os"
)

// Store owns a loaded database and the file it is persisted to.
type Store struct {
	path string
	db   *Database
}

// Open loads the database file at path
func Open(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read database: %w", err)
	}

	db := NewDatabase()
	if err := json.Unmarshal(data, db); err != nil {
		return nil, fmt.Errorf("decode database %s: %w", path, err)
	}

	return &Store{path: path, db: db}, nil
}

// NewStore wraps an in-memory database that will be saved to path
func NewStore(path string, db *Database) *Store {
	if db == nil {
		db = NewDatabase()
	}
	return &Store{path: path, db: db}
}

// Path returns the file the store saves to
func (s *Store) Path() string {
	return s.path
}

// DB returns the loaded database. Operations mutate it in place.
func (s *Store) DB() *Database {
	return s.db
}

// Save writes the whole database back to its file, tab indented, replacing the
// previous content.
func (s *Store) Save() error {
	data, err := json.MarshalIndent(s.db, "", "\t")
	if err != nil {
		return fmt.Errorf("encode database: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write database: %w", err)
	}
	return nil
}
