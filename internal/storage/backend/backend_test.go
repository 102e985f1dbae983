package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/records-api/internal/config"
	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
)

func TestOpen_Drivers(t *testing.T) {
	for _, driver := range []string{config.DriverSQL, config.DriverGORM} {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			cfg := &config.Config{
				StoragePath:   filepath.Join(t.TempDir(), "people.db"),
				StorageDriver: driver,
			}

			b, err := Open(ctx, cfg, nil)
			if err != nil {
				t.Fatalf("Open error: %v", err)
			}
			defer b.Close()

			if b.Driver() != driver {
				t.Fatalf("Driver() = %q, want %q", b.Driver(), driver)
			}

			s, err := NewStore(ctx, b, types.EmployeeEntity)
			if err != nil {
				t.Fatalf("NewStore error: %v", err)
			}
			created, err := s.Create(ctx, types.Employee{Name: "Dana", FatherName: "Lee", Department: "Ops"})
			if err != nil {
				t.Fatalf("Create error: %v", err)
			}
			if err := s.DeleteByID(ctx, created.ID); err != nil {
				t.Fatalf("DeleteByID error: %v", err)
			}
			if _, err := s.GetByID(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

// Both backends build the same schema, so a file written by one can be
// served by the other.
func TestBackends_ShareSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "items.db")

	sqlBackend, err := Open(ctx, &config.Config{StoragePath: path, StorageDriver: config.DriverSQL}, nil)
	if err != nil {
		t.Fatalf("Open sql error: %v", err)
	}
	sqlStore, err := NewStore(ctx, sqlBackend, types.ItemEntity)
	if err != nil {
		t.Fatalf("NewStore sql error: %v", err)
	}
	created, err := sqlStore.Create(ctx, types.Item{Name: "Widget", Description: "A widget"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if err := sqlBackend.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	gormBackend, err := Open(ctx, &config.Config{StoragePath: path, StorageDriver: config.DriverGORM}, nil)
	if err != nil {
		t.Fatalf("Open gorm error: %v", err)
	}
	defer gormBackend.Close()
	gormStore, err := NewStore(ctx, gormBackend, types.ItemEntity)
	if err != nil {
		t.Fatalf("NewStore gorm error: %v", err)
	}

	got, err := gormStore.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got != created {
		t.Fatalf("got %+v, want %+v", got, created)
	}

	next, err := gormStore.Create(ctx, types.Item{Name: "Gadget"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if next.ID <= created.ID {
		t.Fatalf("new id %d not after %d", next.ID, created.ID)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{StoragePath: ":memory:", StorageDriver: "mongo"}, nil)
	if err == nil {
		t.Fatal("expected an error for an unknown driver")
	}
}
