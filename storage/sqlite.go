package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultDBPath = "./cwd.db"

func init() {
	err := Register(SQLiteBackend, func(params map[string]any) (Storage, error) {
		path := defaultDBPath
		if p, ok := params["db_path"].(string); ok && p != "" {
			path = p
		}
		return NewSQLiteStore(path)
	})
	if err != nil {
		panic(err)
	}
}

// KVRecord is a single key/value row. SQLite orders blobs lexicographically,
// which matches the engine's required key order.
type KVRecord struct {
	Key   []byte `gorm:"column:k;primaryKey"`
	Value []byte `gorm:"column:v;not null"`
}

func (KVRecord) TableName() string {
	return "kv_records"
}

// SQLiteStore is a persistent key-value store backed by SQLite through GORM.
type SQLiteStore struct {
	db *gorm.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.AutoMigrate(&KVRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Get(key []byte) ([]byte, error) {
	var rec KVRecord
	result := s.db.Where("k = ?", key).First(&rec)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get key: %w", result.Error)
	}
	// the row exists, so an empty value must read back non-nil
	if rec.Value == nil {
		return []byte{}, nil
	}
	return rec.Value, nil
}

func (s *SQLiteStore) Set(key, value []byte) error {
	result := s.db.Where("k = ?", key).
		Assign(KVRecord{Value: value}).
		FirstOrCreate(&KVRecord{Key: key, Value: value})
	if result.Error != nil {
		return fmt.Errorf("failed to set key: %w", result.Error)
	}
	return nil
}

func (s *SQLiteStore) Remove(key []byte) error {
	if err := s.db.Where("k = ?", key).Delete(&KVRecord{}).Error; err != nil {
		return fmt.Errorf("failed to remove key: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Scan(start, end []byte) (Iterator, error) {
	query := s.db.Model(&KVRecord{}).Order("k")
	if start != nil {
		query = query.Where("k >= ?", start)
	}
	if end != nil {
		query = query.Where("k < ?", end)
	}

	var recs []KVRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to scan range: %w", err)
	}
	return &sliceIterator{recs: recs}, nil
}

type sliceIterator struct {
	recs []KVRecord
	pos  int
}

func (it *sliceIterator) Next() (*Record, error) {
	if it.pos >= len(it.recs) {
		return nil, nil
	}
	rec := it.recs[it.pos]
	it.pos++
	return &Record{Key: rec.Key, Value: rec.Value}, nil
}

func (it *sliceIterator) Close() error {
	return nil
}
