package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/vsinha/metalerp/pkg/domain/repositories"
)

// Document is one persisted blob row
type Document struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName pins the table name
func (Document) TableName() string {
	return "documents"
}

// PostgresStore keeps documents in a single key/value table
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore opens dsn and migrates the documents table
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(5)
	sqlDB.SetMaxIdleConns(2)

	return NewPostgresStoreFromDB(db)
}

// NewPostgresStoreFromDB wraps an existing connection
func NewPostgresStoreFromDB(db *gorm.DB) (*PostgresStore, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Verify interface compliance
var _ repositories.BlobStore = (*PostgresStore)(nil)

// Save upserts the document under key
func (s *PostgresStore) Save(ctx context.Context, key, value string) error {
	doc := Document{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Load returns the document under key
func (s *PostgresStore) Load(ctx context.Context, key string) (string, bool, error) {
	var doc Document
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("load %s: %w", key, err)
	}
	return doc.Value, true, nil
}

// Close closes the underlying connection pool
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
