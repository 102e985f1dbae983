// Package gormstore implements storage.Store on top of GORM with the
// SQLite dialector. The schema comes from the gorm struct tags on the
// record types and is created with AutoMigrate.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aanand-mishra/records-api/internal/storage"
	storagesqlite "github.com/aanand-mishra/records-api/internal/storage/sqlite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const slowQueryThreshold = 200 * time.Millisecond

// Open opens the SQLite file at path through GORM. Query logging is routed
// to log; only warnings (slow queries) and errors are emitted.
func Open(ctx context.Context, path string, log *slog.Logger) (*gorm.DB, error) {
	if err := storagesqlite.EnsureDir(path); err != nil {
		return nil, fmt.Errorf("gormstore.Open: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(storagesqlite.DSN(path)), &gorm.Config{
		Logger: newLogger(log),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore.Open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gormstore.Open: underlying db: %w", err)
	}
	if path == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("gormstore.Open: ping: %w", err)
	}
	return db, nil
}

func newLogger(log *slog.Logger) gormlogger.Interface {
	if log == nil {
		return gormlogger.Discard
	}
	return gormlogger.New(
		slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}

// Store is the GORM implementation of storage.Store for one entity.
type Store[T any] struct {
	db     *gorm.DB
	entity storage.Entity[T]
}

var _ storage.Store[struct{}] = (*Store[struct{}])(nil)

// NewStore migrates T's table and returns a Store bound to it.
func NewStore[T any](ctx context.Context, db *gorm.DB, entity storage.Entity[T]) (*Store[T], error) {
	if err := entity.Validate(); err != nil {
		return nil, fmt.Errorf("gormstore.NewStore: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(new(T)); err != nil {
		return nil, fmt.Errorf("gormstore.NewStore: migrate %s: %w", entity.Table, err)
	}
	return &Store[T]{db: db, entity: entity}, nil
}

func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	*s.entity.ID(&rec) = 0

	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		var zero T
		return zero, fmt.Errorf("Create %s: %w", s.entity.Table, err)
	}
	return rec, nil
}

func (s *Store[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var rec T
	if err := s.db.WithContext(ctx).Take(&rec, id).Error; err != nil {
		var zero T
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, storage.NotFound(s.entity.Table, id)
		}
		return zero, fmt.Errorf("GetByID %s: %w", s.entity.Table, err)
	}
	return rec, nil
}

// ReplaceByID writes every column of the addressed row and reads it back
// in one transaction. Select("*") makes Updates write zero values too, so
// empty strings replace previous content as they should.
func (s *Store[T]) ReplaceByID(ctx context.Context, id int64, rec T) (T, error) {
	var zero T
	*s.entity.ID(&rec) = id

	var updated T
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(new(T)).Where("id = ?", id).Select("*").Updates(&rec)
		if result.Error != nil {
			return fmt.Errorf("update: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return storage.NotFound(s.entity.Table, id)
		}
		if err := tx.Take(&updated, id).Error; err != nil {
			return fmt.Errorf("read back: %w", err)
		}
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		return zero, err
	}
	if err != nil {
		return zero, fmt.Errorf("ReplaceByID %s: %w", s.entity.Table, err)
	}
	return updated, nil
}

func (s *Store[T]) DeleteByID(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(new(T), id)
	if result.Error != nil {
		return fmt.Errorf("DeleteByID %s: %w", s.entity.Table, result.Error)
	}
	if result.RowsAffected == 0 {
		return storage.NotFound(s.entity.Table, id)
	}
	return nil
}
