// Package docs registra en swag la documentación OpenAPI de la API.
//
// swagger.json se genera desde las anotaciones de los handlers:
//
//	go generate ./docs
package docs

//go:generate swag init --dir .. --generalInfo cmd/api/main.go --output . --outputTypes json --parseInternal

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON string

// SwaggerInfo metadatos de la API; ReadDoc devuelve swagger.json.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/udeservering/api",
	Schemes:          []string{"http", "https"},
	Title:            "Udeservering API",
	Description:      "Facturación de permisos de terrazas (udeservering).",
	InfoInstanceName: swag.Name,
	SwaggerTemplate:  swaggerJSON,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
