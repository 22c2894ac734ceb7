package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// collectionRow is the single-table schema of the SQLite backend: one row
// per collection key holding the serialized collection.
type collectionRow struct {
	Collection string    `gorm:"primaryKey;column:collection"`
	Data       []byte    `gorm:"column:data"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (collectionRow) TableName() string {
	return "collections"
}

// SQLiteBackend persists collections in an embedded SQLite database.
// Use ":memory:" as the path for an ephemeral database.
type SQLiteBackend struct {
	db *gorm.DB
}

// NewSQLiteBackend opens (and migrates) the database at path.
func NewSQLiteBackend(path string) (*SQLiteBackend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.AutoMigrate(&collectionRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate collections table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

// Read returns the stored blob for key.
func (b *SQLiteBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var row collectionRow
	err := b.db.WithContext(ctx).First(&row, "collection = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read collection row: %w", err)
	}

	return row.Data, nil
}

// Write upserts the blob for key in a single statement.
func (b *SQLiteBackend) Write(ctx context.Context, key string, data []byte) error {
	row := collectionRow{
		Collection: key,
		Data:       data,
		UpdatedAt:  time.Now(),
	}
	if err := b.db.WithContext(ctx).Save(&row).Error; err != nil {
		return fmt.Errorf("failed to write collection row: %w", err)
	}

	return nil
}

// Close closes the underlying database handle.
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
