// Package storagetest is a contract suite every storage.Store backend must
// pass. Backends call Run from their own tests with a constructor that
// returns a fresh, empty store.
package storagetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aanand-mishra/records-api/internal/storage"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/google/go-cmp/cmp"
)

// Run exercises newStore's result through the full CRUD contract.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store[types.Person]) {
	t.Run("CreateThenGet", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Create(ctx, types.Person{Name: "Alice", FatherName: "Bob", Profession: "Engineer"})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		want := types.Person{ID: 1, Name: "Alice", FatherName: "Bob", Profession: "Engineer"}
		if diff := cmp.Diff(want, created); diff != "" {
			t.Fatalf("Create mismatch (-want +got):\n%s", diff)
		}

		got, err := s.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID error: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("GetByID mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("CreateIgnoresCallerID", func(t *testing.T) {
		s := newStore(t)

		created, err := s.Create(context.Background(), types.Person{ID: 42, Name: "Eve"})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		if created.ID != 1 {
			t.Fatalf("Create assigned id %d, want 1", created.ID)
		}
	})

	t.Run("EmptyStringsAreValues", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Create(ctx, types.Person{})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		got, err := s.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID error: %v", err)
		}
		if diff := cmp.Diff(types.Person{ID: created.ID}, got); diff != "" {
			t.Fatalf("GetByID mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)

		_, err := s.GetByID(context.Background(), 99)
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Replace", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Create(ctx, types.Person{Name: "Alice", FatherName: "Bob", Profession: "Engineer"})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}

		// The id in the replacement is ignored in favour of the addressed one.
		replacement := types.Person{ID: 500, Name: "Alicia", FatherName: "", Profession: "Architect"}
		updated, err := s.ReplaceByID(ctx, created.ID, replacement)
		if err != nil {
			t.Fatalf("ReplaceByID error: %v", err)
		}
		want := types.Person{ID: created.ID, Name: "Alicia", FatherName: "", Profession: "Architect"}
		if diff := cmp.Diff(want, updated); diff != "" {
			t.Fatalf("ReplaceByID mismatch (-want +got):\n%s", diff)
		}

		got, err := s.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetByID error: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("GetByID after replace mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("ReplaceMissing", func(t *testing.T) {
		s := newStore(t)

		_, err := s.ReplaceByID(context.Background(), 7, types.Person{Name: "Nobody"})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		// A failed replace must not create the row.
		if _, err := s.GetByID(context.Background(), 7); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after failed replace, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Create(ctx, types.Person{Name: "Alice"})
		if err != nil {
			t.Fatalf("Create error: %v", err)
		}
		if err := s.DeleteByID(ctx, created.ID); err != nil {
			t.Fatalf("DeleteByID error: %v", err)
		}
		if _, err := s.GetByID(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := s.DeleteByID(ctx, created.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("IDsNeverReused", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		seen := make(map[int64]bool)
		var last int64
		for i := 0; i < 5; i++ {
			p, err := s.Create(ctx, types.Person{Name: "p"})
			if err != nil {
				t.Fatalf("Create error: %v", err)
			}
			if seen[p.ID] || p.ID <= last {
				t.Fatalf("id %d reused or not increasing (last %d)", p.ID, last)
			}
			seen[p.ID] = true
			last = p.ID

			// Deleting the newest row must not free its id.
			if err := s.DeleteByID(ctx, p.ID); err != nil {
				t.Fatalf("DeleteByID error: %v", err)
			}
		}
	})

	// Writers queue on SQLite's single write lock; none of them may fail
	// with a lock error while another one holds it.
	t.Run("ConcurrentReplace", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const (
			rows     = 20
			replaces = 80
			writers  = 100
		)
		for i := 0; i < rows; i++ {
			if _, err := s.Create(ctx, types.Person{Name: "seed"}); err != nil {
				t.Fatalf("Create error: %v", err)
			}
		}

		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				name := fmt.Sprintf("writer-%d", i)
				if i >= replaces {
					if _, err := s.Create(ctx, types.Person{Name: name}); err != nil {
						errs <- fmt.Errorf("Create %s: %w", name, err)
					}
					return
				}
				id := int64(i%rows) + 1
				got, err := s.ReplaceByID(ctx, id, types.Person{Name: name, Profession: "tester"})
				if err != nil {
					errs <- fmt.Errorf("ReplaceByID %d: %w", id, err)
					return
				}
				if got.ID != id || got.Name != name {
					errs <- fmt.Errorf("ReplaceByID %d returned %+v", id, got)
				}
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			t.Error(err)
		}

		// Every seeded row holds the write of whichever replace ran last.
		for id := int64(1); id <= rows; id++ {
			got, err := s.GetByID(ctx, id)
			if err != nil {
				t.Fatalf("GetByID(%d) error: %v", id, err)
			}
			if got.Profession != "tester" {
				t.Errorf("row %d was never replaced: %+v", id, got)
			}
		}
	})

	t.Run("CancelledContext", func(t *testing.T) {
		s := newStore(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := s.Create(ctx, types.Person{Name: "late"}); err == nil {
			t.Fatal("expected an error for a cancelled context")
		}
	})
}
