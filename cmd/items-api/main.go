// Command items-api serves CRUD for Item records.
//
//	go run ./cmd/items-api --config=config/items.yaml
//
// or
//
//	CONFIG_PATH=config/items.yaml go run ./cmd/items-api
package main

import (
	"github.com/aanand-mishra/records-api/internal/app"
	"github.com/aanand-mishra/records-api/internal/http/routes"
)

func main() {
	app.Run("items-api", routes.Items)
}
