// Package api carries the OpenAPI document served to the Swagger UI.
package api

import _ "embed"

//go:embed swagger.json
var SwaggerJSON []byte
