// Package storage defines the Store contract that every database backend
// must satisfy, plus the Entity description that tells a backend how one
// record type maps onto a table.
//
// Handlers only ever see Store[T]. Switching from the database/sql backend
// to the GORM backend is a config change, not a code change.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned (wrapped) when no record has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidEntity is returned when an Entity description is incomplete
	// or inconsistent. It is a programming error and surfaces at startup.
	ErrInvalidEntity = errors.New("invalid entity")
)

// Store is the CRUD contract for one record type.
//
// Every method acquires its own storage handle and releases it before
// returning, whatever the outcome. There is no state shared between calls
// other than the rows themselves.
type Store[T any] interface {
	// Create persists rec under a freshly assigned id and returns the stored
	// record. Any id already set on rec is ignored.
	Create(ctx context.Context, rec T) (T, error)

	// GetByID returns the record with the given id or an error wrapping
	// ErrNotFound.
	GetByID(ctx context.Context, id int64) (T, error)

	// ReplaceByID overwrites every mutable field of an existing record and
	// returns the stored result. The id never changes.
	ReplaceByID(ctx context.Context, id int64, rec T) (T, error)

	// DeleteByID removes the record permanently.
	DeleteByID(ctx context.Context, id int64) error
}

// Entity describes how a record type T is laid out in the database.
//
// Columns lists the mutable columns in a fixed order; Values and Targets
// must return exactly one element per column, in the same order. The id
// column is always named "id" and is handled separately through ID.
type Entity[T any] struct {
	Name    string // human-readable, e.g. "Person"
	Table   string // e.g. "persons"
	Columns []string

	ID      func(rec *T) *int64
	Values  func(rec *T) []any // values bound to INSERT / UPDATE placeholders
	Targets func(rec *T) []any // pointers handed to Scan
}

// Validate checks that the description is usable by a backend.
func (e Entity[T]) Validate() error {
	if e.Name == "" || e.Table == "" {
		return fmt.Errorf("%w: name and table are required", ErrInvalidEntity)
	}
	if len(e.Columns) == 0 {
		return fmt.Errorf("%w: %s has no columns", ErrInvalidEntity, e.Table)
	}
	if e.ID == nil || e.Values == nil || e.Targets == nil {
		return fmt.Errorf("%w: %s is missing an accessor", ErrInvalidEntity, e.Table)
	}

	var probe T
	if n := len(e.Values(&probe)); n != len(e.Columns) {
		return fmt.Errorf("%w: %s has %d columns but %d values",
			ErrInvalidEntity, e.Table, len(e.Columns), n)
	}
	if n := len(e.Targets(&probe)); n != len(e.Columns) {
		return fmt.Errorf("%w: %s has %d columns but %d scan targets",
			ErrInvalidEntity, e.Table, len(e.Columns), n)
	}
	return nil
}

// NotFound builds the error a backend returns for a missing id.
func NotFound(table string, id int64) error {
	return fmt.Errorf("no %s row with id %d: %w", table, id, ErrNotFound)
}
