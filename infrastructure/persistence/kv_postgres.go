package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// PostgresKeyValue keeps every key in one row of a (store_key, store_value) table.
type PostgresKeyValue struct {
	db    *sql.DB
	table string
}

func NewPostgresKeyValue(db *sql.DB, table string) (*PostgresKeyValue, error) {
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &PostgresKeyValue{db: db, table: name}, nil
}

// EnsureSchema creates the backing table if it does not exist.
func (r *PostgresKeyValue) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		store_key TEXT PRIMARY KEY,
		store_value TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`, r.table)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s: %w", r.table, err)
	}
	return nil
}

func (r *PostgresKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT store_value FROM %s WHERE store_key = $1`, r.table), key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (r *PostgresKeyValue) Set(ctx context.Context, key, value string) error {
	q := fmt.Sprintf(`INSERT INTO %s (store_key, store_value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (store_key) DO UPDATE SET
			store_value=EXCLUDED.store_value,
			updated_at=EXCLUDED.updated_at`, r.table)
	_, err := r.db.ExecContext(ctx, q, key, value, time.Now().UTC())
	return err
}

func (r *PostgresKeyValue) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE store_key = $1`, r.table), key)
	return err
}
