package persistence

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type kvEntry struct {
	StoreKey   string    `gorm:"column:store_key;primaryKey;size:191"`
	StoreValue string    `gorm:"column:store_value;type:longtext;not null"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

// MySQLKeyValue stores keys through gorm; any gorm dialect works, MySQL is the one wired.
type MySQLKeyValue struct {
	db    *gorm.DB
	table string
}

func NewMySQLKeyValue(db *gorm.DB, table string) (*MySQLKeyValue, error) {
	name, err := tableName(table)
	if err != nil {
		return nil, err
	}
	return &MySQLKeyValue{db: db, table: name}, nil
}

func (r *MySQLKeyValue) EnsureSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).Table(r.table).AutoMigrate(&kvEntry{})
}

func (r *MySQLKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	var entry kvEntry
	err := r.db.WithContext(ctx).Table(r.table).Where("store_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.StoreValue, true, nil
}

func (r *MySQLKeyValue) Set(ctx context.Context, key, value string) error {
	entry := kvEntry{StoreKey: key, StoreValue: value, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Table(r.table).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"store_value", "updated_at"}),
	}).Create(&entry).Error
}

func (r *MySQLKeyValue) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Table(r.table).Where("store_key = ?", key).Delete(&kvEntry{}).Error
}
