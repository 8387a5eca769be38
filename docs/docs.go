// Package docs carries the OpenAPI description served at /swagger.
package docs

import _ "embed"

//go:embed swagger.json
var SwaggerJSON []byte
