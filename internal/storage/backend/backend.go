// Package backend opens the storage driver named in the config and builds
// per-entity stores on top of it.
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/storage/gormstore"
	"github.com/aanand-mishra/records-api/internal/storage/sqlite"
	"gorm.io/gorm"
)

// Backend is an open database shared by all stores of one service.
// Exactly one of sqlDB / gormDB is set.
type Backend struct {
	driver string
	sqlDB  *sql.DB
	gormDB *gorm.DB
}

// Open connects to cfg.StoragePath with the driver in cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Backend, error) {
	switch cfg.StorageDriver {
	case config.DriverSQL, "":
		db, err := sqlite.Open(ctx, cfg.StoragePath)
		if err != nil {
			return nil, err
		}
		return &Backend{driver: config.DriverSQL, sqlDB: db}, nil
	case config.DriverGORM:
		db, err := gormstore.Open(ctx, cfg.StoragePath, log)
		if err != nil {
			return nil, err
		}
		return &Backend{driver: config.DriverGORM, gormDB: db}, nil
	default:
		return nil, fmt.Errorf("backend.Open: unknown storage driver %q", cfg.StorageDriver)
	}
}

func (b *Backend) Driver() string { return b.driver }

// Close releases the connection pool.
func (b *Backend) Close() error {
	if b.gormDB != nil {
		db, err := b.gormDB.DB()
		if err != nil {
			return fmt.Errorf("backend.Close: %w", err)
		}
		return db.Close()
	}
	return b.sqlDB.Close()
}

// NewStore prepares entity's table on b and returns its store.
func NewStore[T any](ctx context.Context, b *Backend, entity storage.Entity[T]) (storage.Store[T], error) {
	if b.gormDB != nil {
		s, err := gormstore.NewStore(ctx, b.gormDB, entity)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	s, err := sqlite.NewStore(ctx, b.sqlDB, entity)
	if err != nil {
		return nil, err
	}
	return s, nil
}
