// Package types holds the record types served by both services and the
// request bodies used to create or replace them.
//
// Each record struct carries three sets of tags:
//
//  1. json:"..." — the wire format of responses.
//  2. gorm:"..." — the schema the GORM backend migrates to. Index names
//     follow ix_<table>_<column> so both backends build the same schema.
//  3. validate:"..." (input structs only) — checked by go-playground/validator.
//
// Input fields are pointers so that "required" means "present and not null"
// while still accepting an empty string.
package types

// Item is the single record type of the items service.
type Item struct {
	ID          int64  `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name"        gorm:"index:ix_items_name"`
	Description string `json:"description" gorm:"index:ix_items_description"`
}

func (Item) TableName() string { return "items" }

type ItemInput struct {
	Name        *string `json:"name"        validate:"required"`
	Description *string `json:"description" validate:"required"`
}

func (in ItemInput) Record() Item {
	return Item{Name: *in.Name, Description: *in.Description}
}

// Person is served by the people service.
type Person struct {
	ID         int64  `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name       string `json:"name"        gorm:"index:ix_persons_name"`
	FatherName string `json:"father_name" gorm:"index:ix_persons_father_name"`
	Profession string `json:"profession"  gorm:"index:ix_persons_profession"`
}

func (Person) TableName() string { return "persons" }

type PersonInput struct {
	Name       *string `json:"name"        validate:"required"`
	FatherName *string `json:"father_name" validate:"required"`
	Profession *string `json:"profession"  validate:"required"`
}

func (in PersonInput) Record() Person {
	return Person{Name: *in.Name, FatherName: *in.FatherName, Profession: *in.Profession}
}

// Student is served by the people service.
type Student struct {
	ID         int64  `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name       string `json:"name"        gorm:"index:ix_students_name"`
	FatherName string `json:"father_name" gorm:"index:ix_students_father_name"`
	ClassName  string `json:"class_name"  gorm:"index:ix_students_class_name"`
}

func (Student) TableName() string { return "students" }

type StudentInput struct {
	Name       *string `json:"name"        validate:"required"`
	FatherName *string `json:"father_name" validate:"required"`
	ClassName  *string `json:"class_name"  validate:"required"`
}

func (in StudentInput) Record() Student {
	return Student{Name: *in.Name, FatherName: *in.FatherName, ClassName: *in.ClassName}
}

// Employee is served by the people service.
type Employee struct {
	ID         int64  `json:"id"          gorm:"primaryKey;autoIncrement"`
	Name       string `json:"name"        gorm:"index:ix_employees_name"`
	FatherName string `json:"father_name" gorm:"index:ix_employees_father_name"`
	Department string `json:"department"  gorm:"index:ix_employees_department"`
}

func (Employee) TableName() string { return "employees" }

type EmployeeInput struct {
	Name       *string `json:"name"        validate:"required"`
	FatherName *string `json:"father_name" validate:"required"`
	Department *string `json:"department"  validate:"required"`
}

func (in EmployeeInput) Record() Employee {
	return Employee{Name: *in.Name, FatherName: *in.FatherName, Department: *in.Department}
}
