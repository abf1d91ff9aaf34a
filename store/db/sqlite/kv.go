package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hrygo/toeicplanner/store"
)

func (d *DB) GetKeyValue(ctx context.Context, find *store.FindKeyValue) (*store.KeyValue, error) {
	kv := &store.KeyValue{}
	err := d.db.QueryRowContext(ctx, `SELECT owner_id, key, value FROM key_value WHERE owner_id = ? AND key = ?`, find.OwnerID, find.Key).Scan(
		&kv.OwnerID,
		&kv.Key,
		&kv.Value,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key value: %w", err)
	}
	return kv, nil
}

func (d *DB) UpsertKeyValue(ctx context.Context, upsert *store.KeyValue) (*store.KeyValue, error) {
	stmt := `
		INSERT INTO key_value (owner_id, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(owner_id, key) DO UPDATE
		SET value = EXCLUDED.value`
	if _, err := d.db.ExecContext(ctx, stmt, upsert.OwnerID, upsert.Key, upsert.Value); err != nil {
		return nil, fmt.Errorf("failed to upsert key value: %w", err)
	}
	return upsert, nil
}

func (d *DB) DeleteKeyValue(ctx context.Context, delete *store.DeleteKeyValue) error {
	if _, err := d.db.ExecContext(ctx, `DELETE FROM key_value WHERE owner_id = ? AND key = ?`, delete.OwnerID, delete.Key); err != nil {
		return fmt.Errorf("failed to delete key value: %w", err)
	}
	return nil
}
