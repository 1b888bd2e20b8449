package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database a report is exported into
type Store struct {
	conn *sql.DB
	path string
}

// New opens or creates the SQLite database at the given path
func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	s := &Store{conn: conn, path: path}

	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// Path returns the database file path
func (s *Store) Path() string {
	return s.path
}

// migrate runs the database schema migrations
func (s *Store) migrate() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return err
	}

	var version int
	err = s.conn.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return err
	}

	migrations := []string{
		migrationV1,
	}

	for i, migration := range migrations {
		v := i + 1
		if v <= version {
			continue
		}

		tx, err := s.conn.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(migration); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration v%d failed: %w", v, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", v); err != nil {
			tx.Rollback()
			return err
		}

		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// migrationV1 creates the initial schema
const migrationV1 = `
-- One row per report run
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    generated_at TIMESTAMP NOT NULL,
    source TEXT NOT NULL,
    inventory TEXT,
    lines INTEGER,
    recorded INTEGER,
    filtered INTEGER,
    dropped INTEGER
);

-- Device rows of a run, with inventory identity where one was found
CREATE TABLE IF NOT EXISTS devices (
    id INTEGER PRIMARY KEY,
    run_id TEXT NOT NULL REFERENCES runs(id),
    seq INTEGER NOT NULL,
    key TEXT NOT NULL,
    total INTEGER NOT NULL,

    disk_location TEXT,
    disk_manufacturer TEXT,
    disk_model TEXT,
    disk_serial TEXT,
    disk_firmware TEXT,
    disk_size_bytes INTEGER,

    pci_vendor_name TEXT,
    pci_device_name TEXT,
    pci_subsystem_name TEXT,

    UNIQUE(run_id, key)
);

CREATE INDEX IF NOT EXISTS idx_devices_run ON devices(run_id);
CREATE INDEX IF NOT EXISTS idx_devices_key ON devices(key);
CREATE INDEX IF NOT EXISTS idx_devices_serial ON devices(disk_serial);

-- Inventory components matched by hc-fmri
CREATE TABLE IF NOT EXISTS device_components (
    id INTEGER PRIMARY KEY,
    device_id INTEGER NOT NULL REFERENCES devices(id),
    kind TEXT NOT NULL,
    label TEXT,
    manufacturer TEXT,
    model TEXT,
    serial TEXT
);

CREATE INDEX IF NOT EXISTS idx_components_device ON device_components(device_id);

-- Class histogram per device
CREATE TABLE IF NOT EXISTS device_classes (
    device_id INTEGER NOT NULL REFERENCES devices(id),
    class TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (device_id, class)
);

-- Day histogram per device; seq keeps first-seen order
CREATE TABLE IF NOT EXISTS device_days (
    device_id INTEGER NOT NULL REFERENCES devices(id),
    seq INTEGER NOT NULL,
    day TEXT NOT NULL,
    count INTEGER NOT NULL,
    PRIMARY KEY (device_id, day)
);
`
