package types

import "github.com/aanand-mishra/records-api/internal/storage"

// Column order here must match the order of Values and Targets.

var ItemEntity = storage.Entity[Item]{
	Name:    "Item",
	Table:   "items",
	Columns: []string{"name", "description"},
	ID:      func(r *Item) *int64 { return &r.ID },
	Values:  func(r *Item) []any { return []any{r.Name, r.Description} },
	Targets: func(r *Item) []any { return []any{&r.Name, &r.Description} },
}

var PersonEntity = storage.Entity[Person]{
	Name:    "Person",
	Table:   "persons",
	Columns: []string{"name", "father_name", "profession"},
	ID:      func(r *Person) *int64 { return &r.ID },
	Values:  func(r *Person) []any { return []any{r.Name, r.FatherName, r.Profession} },
	Targets: func(r *Person) []any { return []any{&r.Name, &r.FatherName, &r.Profession} },
}

var StudentEntity = storage.Entity[Student]{
	Name:    "Student",
	Table:   "students",
	Columns: []string{"name", "father_name", "class_name"},
	ID:      func(r *Student) *int64 { return &r.ID },
	Values:  func(r *Student) []any { return []any{r.Name, r.FatherName, r.ClassName} },
	Targets: func(r *Student) []any { return []any{&r.Name, &r.FatherName, &r.ClassName} },
}

var EmployeeEntity = storage.Entity[Employee]{
	Name:    "Employee",
	Table:   "employees",
	Columns: []string{"name", "father_name", "department"},
	ID:      func(r *Employee) *int64 { return &r.ID },
	Values:  func(r *Employee) []any { return []any{r.Name, r.FatherName, r.Department} },
	Targets: func(r *Employee) []any { return []any{&r.Name, &r.FatherName, &r.Department} },
}
