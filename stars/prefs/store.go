// Package prefs persists user preferences as string key-value pairs.
package prefs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("prefs: not found")

// Store is a durable string key-value store.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// Preference is one stored row.
type Preference struct {
	Key       string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"not null"`
	UpdatedAt time.Time
}

// SQLiteStore keeps preferences in a SQLite file through gorm.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database at path and migrates the
// preferences table. An empty path opens a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("prefs: open %q: %w", path, err)
	}
	if path == "" {
		// Every pooled connection would otherwise get its own empty database.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	if err := db.AutoMigrate(&Preference{}); err != nil {
		return nil, errors.Join(fmt.Errorf("prefs: migrate: %w", err), closeDB(db))
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key string) (string, error) {
	var p Preference
	err := s.db.Where(map[string]any{"key": key}).Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("prefs: get %q: %w", key, err)
	}
	return p.Value, nil
}

func (s *SQLiteStore) Set(key, value string) error {
	p := Preference{Key: key, Value: value, UpdatedAt: time.Now()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&p).Error
	if err != nil {
		return fmt.Errorf("prefs: set %q: %w", key, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error { return closeDB(s.db) }

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{m: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
