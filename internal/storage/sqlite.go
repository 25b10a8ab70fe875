package storage

import (
	"errors"
	"fmt"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// storageEntry is the single-table schema backing the key-value port.
type storageEntry struct {
	Key   string `gorm:"column:key;primaryKey;size:190;not null"`
	Value string `gorm:"column:value;type:text;not null"`
}

func (storageEntry) TableName() string {
	return "storage_entries"
}

// SQLiteStore persists key-value entries in a SQLite database.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite establishes a SQLite connection, migrates the schema, and
// returns a durable KeyValue store.
func OpenSQLite(path string, logger *zap.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&storageEntry{}); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Info("storage initialized", zap.String("path", path))
	}

	return &SQLiteStore{db: db}, nil
}

// Get returns the value stored at key.
func (s *SQLiteStore) Get(key string) (string, bool) {
	var entry storageEntry
	err := s.db.Where("key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false
	}
	if err != nil {
		return "", false
	}
	return entry.Value, true
}

// Set stores value under key, replacing any previous value.
func (s *SQLiteStore) Set(key, value string) error {
	return s.db.Save(&storageEntry{Key: key, Value: value}).Error
}

// Remove deletes the key. Removing an absent key is not an error.
func (s *SQLiteStore) Remove(key string) error {
	return s.db.Where("key = ?", key).Delete(&storageEntry{}).Error
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
