package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"nova-studio/infrastructure/logger"
)

// MSSQLKeyValue is the SQL Server flavour of PostgresKeyValue.
type MSSQLKeyValue struct {
	db    *sql.DB
	table string
}

func NewMSSQLKeyValue(db *sql.DB, table string) (*MSSQLKeyValue, error) {
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &MSSQLKeyValue{db: db, table: name}, nil
}

func (r *MSSQLKeyValue) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.%[1]s') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.[%[1]s] (
        store_key NVARCHAR(256) NOT NULL PRIMARY KEY,
        store_value NVARCHAR(MAX) NOT NULL,
        updated_at DATETIME2 NOT NULL
    );
END`, r.table)
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create %s (mssql): %w", r.table, err)
	}
	return nil
}

func (r *MSSQLKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	row := r.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT store_value FROM dbo.[%s] WHERE store_key = @p1`, r.table), key)
	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		logger.GetLogger().WithField("error", err).WithField("key", key).Error("mssql: read key failed")
		return "", false, err
	}
	return value, true, nil
}

func (r *MSSQLKeyValue) Set(ctx context.Context, key, value string) error {
	q := fmt.Sprintf(`MERGE dbo.[%s] AS target
USING (VALUES (@p1)) AS src(store_key)
ON target.store_key = src.store_key
WHEN MATCHED THEN UPDATE SET
    store_value=@p2,
    updated_at=@p3
WHEN NOT MATCHED THEN
    INSERT (store_key, store_value, updated_at)
    VALUES (@p1, @p2, @p3);`, r.table)
	_, err := r.db.ExecContext(ctx, q, key, value, time.Now().UTC())
	if err != nil {
		logger.GetLogger().WithField("error", err).WithField("key", key).Error("mssql: write key failed")
	}
	return err
}

func (r *MSSQLKeyValue) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM dbo.[%s] WHERE store_key = @p1`, r.table), key)
	return err
}
