// Command people-api serves CRUD for Person, Student and Employee records.
//
//	go run ./cmd/people-api --config=config/people.yaml
//
// or
//
//	CONFIG_PATH=config/people.yaml go run ./cmd/people-api
package main

import (
	"github.com/aanand-mishra/records-api/internal/app"
	"github.com/aanand-mishra/records-api/internal/http/routes"
)

func main() {
	app.Run("people-api", routes.People)
}
