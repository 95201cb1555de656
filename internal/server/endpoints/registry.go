package endpoints

import (
	"strings"

	"github.com/jackzampolin/promptbox/internal/api"
)

// Config holds dependencies needed by some endpoints.
type Config struct {
	SwaggerSpecPath string
}

// All returns all endpoint instances.
func All(cfg Config) []api.Endpoint {
	return []api.Endpoint{
		// Health endpoints
		&HealthEndpoint{},
		&ReadyEndpoint{},

		// Prompt endpoints
		&ListPromptsEndpoint{},
		&GetPromptEndpoint{},
		&CreatePromptEndpoint{},
		&UpdatePromptEndpoint{},
		&DeletePromptEndpoint{},
		&CopyPromptEndpoint{},
		&VotePromptEndpoint{},
		&ParseVariablesEndpoint{},
		&GeneratePromptEndpoint{},

		// Folder endpoints
		&ListFoldersEndpoint{},
		&CreateFolderEndpoint{},
		&DeleteFolderEndpoint{},

		// Swagger/OpenAPI endpoints
		&SwaggerEndpoint{SpecPath: cfg.SwaggerSpecPath},
		&SwaggerUIEndpoint{},

		// Static files (NoRoute fallback)
		&StaticEndpoint{},
	}
}

// Group returns the CLI command group for an endpoint, derived from the
// first path segment after /api ("prompts", "folders"). Health, readiness
// and swagger commands sit directly under "api".
func Group(ep api.Endpoint) string {
	_, path, _ := ep.Route()
	rest, ok := strings.CutPrefix(path, "/api/")
	if !ok {
		return ""
	}
	group, _, _ := strings.Cut(rest, "/")
	if group == "health" {
		return ""
	}
	return group
}
