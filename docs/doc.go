// Package docs provides generated OpenAPI documentation.
//
// promptbox API
//
//	@title			promptbox API
//	@version		1.0
//	@description	Store, organize and fill in reusable prompt templates with {{variable}} placeholders.
//
//	@contact.name	API Support
//	@contact.url	https://github.com/jackzampolin/promptbox
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@schemes	http
package docs

import _ "embed"

//go:generate go tool swag init -g doc.go -d ./,../internal/server/endpoints,../internal/prompts -o ./swagger --outputTypes json --parseInternal

//go:embed swagger/swagger.json
var swaggerJSON []byte

// SwaggerJSON returns the embedded OpenAPI document.
func SwaggerJSON() []byte {
	return swaggerJSON
}
