package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/promptbox/internal/config"
	"github.com/jackzampolin/promptbox/internal/logging"
	"github.com/jackzampolin/promptbox/internal/server"
	"github.com/jackzampolin/promptbox/internal/server/endpoints"
	"github.com/jackzampolin/promptbox/version"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the promptbox server",
	Long: `Start the promptbox HTTP server.

The server opens the SQLite database (creating and seeding it on first run),
serves the JSON API under /api and the web client at /.

The server provides:
  - /api/health   - Basic server health check
  - /ready        - Readiness check (includes the database)
  - /swagger      - API documentation

Log level and CORS origins are reloaded when the config file changes.

Examples:
  promptbox serve                    # Start on default port 8080
  promptbox serve --port 3000        # Start on custom port
  promptbox serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		h, err := getHome()
		if err != nil {
			return err
		}

		mgr, err := config.NewManager(cfgFile, h.Path())
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		logger, err := logging.New(cfg.Log.Logging(), os.Stdout)
		if err != nil {
			return err
		}
		defer logger.Close()
		slog.SetDefault(logger.Logger)

		mgr.OnChange(func(c *config.Config) {
			if err := logger.SetLevel(c.Log.Level); err != nil {
				logger.Warn("ignoring log level from config", "error", err)
			}
		})
		mgr.OnError(func(err error) {
			logger.Warn("config reload rejected, keeping previous config", "error", err)
		})
		if mgr.File() != "" {
			logger.Info("watching config file", "path", mgr.File())
			mgr.WatchConfig()
		}

		host := cfg.Server.Host
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		dbPath := cfg.Database.Path
		if dbPath == "" {
			dbPath = h.DatabasePath()
		}

		srv, err := server.New(server.Config{
			Host:            host,
			Port:            port,
			DatabasePath:    dbPath,
			Seed:            cfg.Database.Seed,
			AllowOrigins:    cfg.CORS.AllowOrigins,
			Tracing:         cfg.Tracing.Enabled,
			Version:         version.GitRelease,
			SwaggerSpecPath: endpoints.GetSwaggerSpecPath(),
			ConfigManager:   mgr,
			Logger:          logger.Logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
