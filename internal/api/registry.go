package api

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

// Registry holds all registered endpoints.
type Registry struct {
	endpoints []Endpoint
}

// NewRegistry creates a new endpoint registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an endpoint to the registry.
func (r *Registry) Register(ep Endpoint) {
	r.endpoints = append(r.endpoints, ep)
}

// RegisterRoutes registers all endpoint HTTP routes with the given engine.
// initMiddleware runs before handlers that require full server initialization.
// The FallbackPath endpoint is installed as the engine's NoRoute handler.
func (r *Registry) RegisterRoutes(engine *gin.Engine, initMiddleware gin.HandlerFunc) {
	for _, ep := range r.endpoints {
		method, path, handler := ep.Route()
		handlers := []gin.HandlerFunc{handler}
		if ep.RequiresInit() {
			handlers = append([]gin.HandlerFunc{initMiddleware}, handlers...)
		}
		if path == FallbackPath {
			engine.NoRoute(handlers...)
			continue
		}
		engine.Handle(method, path, handlers...)
	}
}

// BuildCommands returns a cobra.Command tree for all registered endpoints.
// Commands are placed under the group named by groupOf; an empty group
// puts the command directly under "api".
// getServerURL is called at runtime to get the server URL.
func (r *Registry) BuildCommands(getServerURL func() string, groupOf func(Endpoint) string) *cobra.Command {
	apiCmd := &cobra.Command{
		Use:   "api",
		Short: "Commands that call the running server",
		Long: `API commands call the running promptbox server via HTTP.

These commands require a running server (promptbox serve).
Use --server to specify a custom server URL.

Examples:
  promptbox api health                      # Check server health
  promptbox api prompts list --tags blog    # List prompts tagged blog
  promptbox api prompts generate 3 -v topic=Go`,
	}

	groups := make(map[string]*cobra.Command)
	for _, ep := range r.endpoints {
		cmd := ep.Command(getServerURL)
		if cmd == nil {
			continue
		}
		name := ""
		if groupOf != nil {
			name = groupOf(ep)
		}
		if name == "" {
			apiCmd.AddCommand(cmd)
			continue
		}
		group, ok := groups[name]
		if !ok {
			group = &cobra.Command{
				Use:   name,
				Short: name + " commands",
			}
			groups[name] = group
			apiCmd.AddCommand(group)
		}
		group.AddCommand(cmd)
	}

	return apiCmd
}

// Endpoints returns all registered endpoints.
func (r *Registry) Endpoints() []Endpoint {
	return r.endpoints
}
