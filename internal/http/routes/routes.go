// Package routes assembles the route table of each service.
//
// Items service:
//
//	POST   /items/        create an item
//	GET    /items/{id}    get one item
//	PUT    /items/{id}    replace an item
//	DELETE /items/{id}    delete an item
//
// People service:
//
//	GET    /              banner
//	POST   /persons/      GET|PUT|DELETE /person/{id}
//	POST   /students/     GET|PUT|DELETE /student/{id}
//	POST   /employees/    GET|PUT|DELETE /employee/{id}
package routes

import (
	"context"
	"net/http"

	"github.com/aanand-mishra/records-api/internal/http/handlers/record"
	"github.com/aanand-mishra/records-api/internal/storage/backend"
	"github.com/aanand-mishra/records-api/internal/types"
	"github.com/aanand-mishra/records-api/internal/utils/response"
)

// Banner is what the people service answers on GET /.
const Banner = "Testing CRUD on Multipal Models"

// Items prepares the items table on b and returns the items service router.
func Items(ctx context.Context, b *backend.Backend) (*http.ServeMux, error) {
	items, err := backend.NewStore(ctx, b, types.ItemEntity)
	if err != nil {
		return nil, err
	}

	router := http.NewServeMux()
	record.New[types.Item, types.ItemInput](types.ItemEntity.Name, items).
		Register(router, "items", "items")
	return router, nil
}

// People prepares the persons, students and employees tables on b and
// returns the people service router.
func People(ctx context.Context, b *backend.Backend) (*http.ServeMux, error) {
	persons, err := backend.NewStore(ctx, b, types.PersonEntity)
	if err != nil {
		return nil, err
	}
	students, err := backend.NewStore(ctx, b, types.StudentEntity)
	if err != nil {
		return nil, err
	}
	employees, err := backend.NewStore(ctx, b, types.EmployeeEntity)
	if err != nil {
		return nil, err
	}

	router := http.NewServeMux()
	router.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, []string{Banner})
	})

	record.New[types.Person, types.PersonInput](types.PersonEntity.Name, persons).
		Register(router, "persons", "person")
	record.New[types.Student, types.StudentInput](types.StudentEntity.Name, students).
		Register(router, "students", "student")
	record.New[types.Employee, types.EmployeeInput](types.EmployeeEntity.Name, employees).
		Register(router, "employees", "employee")
	return router, nil
}
