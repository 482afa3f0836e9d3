package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"codemindmap/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// DatabaseFileName is the settings database inside the app-data root
const DatabaseFileName = "settings.db"

// SettingsStore implements ports.SettingsStore using SQLite
type SettingsStore struct {
	db     *sql.DB
	dbPath string
}

// Ensure SettingsStore implements ports.SettingsStore
var _ ports.SettingsStore = (*SettingsStore)(nil)

// Open opens (creating if needed) the settings database under appDataRoot
func Open(appDataRoot string) (*SettingsStore, error) {
	dbPath := filepath.Join(appDataRoot, DatabaseFileName)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	// modernc applies _pragma parameters to every pooled connection
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			collection TEXT NOT NULL,
			property TEXT NOT NULL,
			value TEXT NOT NULL,
			PRIMARY KEY (collection, property)
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	s := &SettingsStore{db: db, dbPath: dbPath}
	if err := s.updateMeta(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}
	return s, nil
}

// Path returns the database file path
func (s *SettingsStore) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *SettingsStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SettingsStore) updateMeta() error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
	return err
}

// SchemaVersion returns the schema version recorded in the database
func (s *SettingsStore) SchemaVersion() string {
	var version string
	s.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	return version
}

// Get retrieves a value by collection and property
func (s *SettingsStore) Get(ctx context.Context, collection, property string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM settings WHERE collection = ? AND property = ?
	`, collection, property).Scan(&value)

	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Set overwrites a value and bumps the collection's revision
func (s *SettingsStore) Set(ctx context.Context, collection, property, value string) error {
	tx, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := tx.put(ctx, collection, property, value); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.bumpRevision(ctx, collection); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Revision returns how many times a collection has been written
func (s *SettingsStore) Revision(ctx context.Context, collection string) (int, error) {
	var rev sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT CAST(value AS INTEGER) FROM meta WHERE key = ?
	`, revisionKey(collection)).Scan(&rev)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(rev.Int64), nil
}
