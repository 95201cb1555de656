package api

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// FallbackPath marks an endpoint that handles every request no other route
// matched. At most one endpoint should use it.
const FallbackPath = "/*path"

// Endpoint defines both an HTTP route and its corresponding CLI command.
// This provides a single source of truth for API operations.
type Endpoint interface {
	// Route returns the HTTP method, path, and handler for this endpoint.
	// Paths use gin syntax (e.g. /api/prompts/:id).
	Route() (method, path string, handler gin.HandlerFunc)

	// RequiresInit returns true if this endpoint needs the prompt store.
	RequiresInit() bool

	// Command returns a Cobra command that calls this endpoint via HTTP.
	// getServerURL is called at runtime to get the server URL (deferred evaluation).
	// Endpoints without a CLI counterpart return nil.
	Command(getServerURL func() string) *cobra.Command
}
