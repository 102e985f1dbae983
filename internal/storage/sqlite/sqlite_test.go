package sqlite

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/storage/storagetest"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/google/go-cmp/cmp"
)

func openTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "nested", "records.db")
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store[types.Person] {
		db, err := Open(context.Background(), openTestDB(t))
		if err != nil {
			t.Fatalf("Open error: %v", err)
		}
		t.Cleanup(func() { db.Close() })

		s, err := NewStore(context.Background(), db, types.PersonEntity)
		if err != nil {
			t.Fatalf("NewStore error: %v", err)
		}
		return s
	})
}

func TestDSN(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"storage/items.db", "file:storage/items.db?_busy_timeout=5000&_txlock=immediate"},
		{":memory:", "file::memory:?_busy_timeout=5000&_txlock=immediate"},
		{"/data/odd?name#1%.db", "file:/data/odd%3Fname%231%25.db?_busy_timeout=5000&_txlock=immediate"},
	}
	for _, tt := range tests {
		if got := DSN(tt.path); got != tt.want {
			t.Errorf("DSN(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestOpen_PathWithURICharacters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "odd?name#1%.db")

	db, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer db.Close()

	s, err := NewStore(context.Background(), db, types.PersonEntity)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if _, err := s.Create(context.Background(), types.Person{Name: "Alice"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("database file not created under its full name: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "odd")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("file name was cut at '?': stat odd: %v", err)
	}
}

func TestStore_InMemory(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer db.Close()

	s, err := NewStore(context.Background(), db, types.ItemEntity)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}

	created, err := s.Create(context.Background(), types.Item{Name: "Widget", Description: "A widget"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	got, err := s.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	want := types.Item{ID: 1, Name: "Widget", Description: "A widget"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("GetByID mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStore_Idempotent(t *testing.T) {
	path := openTestDB(t)
	ctx := context.Background()

	db, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer db.Close()

	first, err := NewStore(ctx, db, types.StudentEntity)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}
	if _, err := first.Create(ctx, types.Student{Name: "Sam", FatherName: "Tom", ClassName: "7B"}); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	// A second startup against the same file keeps the existing rows.
	second, err := NewStore(ctx, db, types.StudentEntity)
	if err != nil {
		t.Fatalf("second NewStore error: %v", err)
	}
	got, err := second.GetByID(ctx, 1)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ClassName != "7B" {
		t.Fatalf("got class %q, want %q", got.ClassName, "7B")
	}
}

func TestNewStore_CreatesIndexes(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, openTestDB(t))
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer db.Close()

	if _, err := NewStore(ctx, db, types.EmployeeEntity); err != nil {
		t.Fatalf("NewStore error: %v", err)
	}

	rows, err := db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = 'employees' AND name LIKE 'ix_%' ORDER BY name")
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan error: %v", err)
		}
		got = append(got, name)
	}
	want := []string{"ix_employees_department", "ix_employees_father_name", "ix_employees_name"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("indexes mismatch (-want +got):\n%s", diff)
	}
}

func TestNewStore_InvalidEntity(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	defer db.Close()

	bad := types.PersonEntity
	bad.Columns = bad.Columns[:2]

	_, err = NewStore(context.Background(), db, bad)
	if !errors.Is(err, storage.ErrInvalidEntity) {
		t.Fatalf("expected ErrInvalidEntity, got %v", err)
	}
}
