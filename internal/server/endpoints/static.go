package endpoints

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/api"
	"github.com/jackzampolin/promptbox/web"
)

// StaticEndpoint serves the embedded frontend assets.
// It handles SPA routing by serving index.html for unknown paths.
type StaticEndpoint struct{}

var _ api.Endpoint = (*StaticEndpoint)(nil)

func (e *StaticEndpoint) Route() (string, string, gin.HandlerFunc) {
	// Installed as the NoRoute handler so it only sees unmatched requests.
	return "GET", api.FallbackPath, e.handler
}

func (e *StaticEndpoint) RequiresInit() bool {
	return false
}

func (e *StaticEndpoint) Command(_ func() string) *cobra.Command {
	return nil // No CLI command for static files
}

func (e *StaticEndpoint) handler(c *gin.Context) {
	path := c.Request.URL.Path

	// Unknown API routes get a JSON 404 instead of the SPA shell.
	if path == "/api" || strings.HasPrefix(path, "/api/") {
		writeError(c, http.StatusNotFound, "Route not found")
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		writeError(c, http.StatusNotFound, "Route not found")
		return
	}

	// Get the embedded filesystem
	distFS, err := web.DistFS()
	if err != nil {
		c.String(http.StatusInternalServerError, "Frontend not available")
		return
	}

	// Serve assets directly; index.html always goes through the fallback
	// below since the file server redirects it to the directory.
	filePath := strings.TrimPrefix(path, "/")
	if filePath != "" && filePath != "index.html" {
		if info, err := fs.Stat(distFS, filePath); err == nil && !info.IsDir() {
			c.FileFromFS(filePath, http.FS(distFS))
			return
		}
	}

	// File doesn't exist - serve index.html for SPA routing
	indexFile, err := fs.ReadFile(distFS, "index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "Frontend not available")
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", indexFile)
}
