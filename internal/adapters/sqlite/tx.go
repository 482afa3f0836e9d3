package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// settingsTx groups the writes of one Set
type settingsTx struct {
	tx *sql.Tx
}

func (s *SettingsStore) begin(ctx context.Context) (*settingsTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &settingsTx{tx: tx}, nil
}

// put inserts or replaces a value
func (t *settingsTx) put(ctx context.Context, collection, property, value string) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (collection, property, value)
		VALUES (?, ?, ?)
	`, collection, property, value)
	return err
}

// bumpRevision increments the collection's write counter
func (t *settingsTx) bumpRevision(ctx context.Context, collection string) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, '1')
		ON CONFLICT(key) DO UPDATE SET value = CAST(CAST(value AS INTEGER) + 1 AS TEXT)
	`, revisionKey(collection))
	return err
}

// Commit commits the transaction
func (t *settingsTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *settingsTx) Rollback() error {
	return t.tx.Rollback()
}

func revisionKey(collection string) string {
	return "revision:" + collection
}
