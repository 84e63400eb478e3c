package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned when a requested page or run does not exist.
var ErrNotFound = errors.New("not found")

// setting is a connection pragma and the value SQLite reports once it holds.
type setting struct {
	name   string
	value  string
	readAs string
}

// settings are applied to every history database and read back: SQLite
// silently keeps the old journal mode on filesystems without shared memory.
var settings = []setting{
	{name: "journal_mode", value: "WAL", readAs: "wal"},
	{name: "synchronous", value: "NORMAL", readAs: "1"},
	{name: "busy_timeout", value: "5000", readAs: "5000"},
	{name: "foreign_keys", value: "ON", readAs: "1"},
}

// migrations[v-1] upgrades a history from user_version v-1 to v. Tables
// themselves come from schema.sql, which is idempotent.
var migrations = []string{
	// v1: history --code filters by diagnostic code.
	`CREATE INDEX IF NOT EXISTS idx_diagnostics_code ON diagnostics(code, run_id)`,
}

var currentSchemaVersion = len(migrations)

// Store is the run history: processed pages, the runs made over them and
// the diagnostics each run raised.
type Store struct {
	db *sql.DB
}

// Open opens the history at path, creating and upgrading it as needed.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	// One connection keeps the pragmas and every write on the same handle.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}
	return s, nil
}

func (s *Store) init() error {
	for _, p := range settings {
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("set %s: %w", p.name, err)
		}
		if err := s.verifyPragma(p.name, p.readAs); err != nil {
			return err
		}
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return s.migrate()
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	for v := version; v < len(migrations); v++ {
		if _, err := s.db.Exec(migrations[v]); err != nil {
			return fmt.Errorf("migrate history to v%d: %w", v+1, err)
		}
	}
	if version >= currentSchemaVersion {
		return nil
	}
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return nil
}

// Close closes the history.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) verifyPragma(name, expected string) error {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
