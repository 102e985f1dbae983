package gormstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/storage/storagetest"
	"github.com/aanand-mishra/records-api/internal/types"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(context.Background(), filepath.Join(t.TempDir(), "records.db"), nil)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store[types.Person] {
		s, err := NewStore(context.Background(), openTestDB(t), types.PersonEntity)
		if err != nil {
			t.Fatalf("NewStore error: %v", err)
		}
		return s
	})
}

func TestNewStore_Schema(t *testing.T) {
	db := openTestDB(t)
	if _, err := NewStore(context.Background(), db, types.StudentEntity); err != nil {
		t.Fatalf("NewStore error: %v", err)
	}

	m := db.Migrator()
	if !m.HasTable("students") {
		t.Fatal("students table was not created")
	}
	for _, col := range types.StudentEntity.Columns {
		if !m.HasColumn(&types.Student{}, col) {
			t.Errorf("missing column %q", col)
		}
		if idx := "ix_students_" + col; !m.HasIndex(&types.Student{}, idx) {
			t.Errorf("missing index %q", idx)
		}
	}
}

func TestNewStore_InvalidEntity(t *testing.T) {
	bad := types.ItemEntity
	bad.Table = ""

	if _, err := NewStore(context.Background(), openTestDB(t), bad); err == nil {
		t.Fatal("expected an error for an entity without a table")
	}
}
