package config

import "github.com/jackzampolin/promptbox/internal/logging"

// Config holds promptbox configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server   ServerCfg   `mapstructure:"server" yaml:"server"`
	Database DatabaseCfg `mapstructure:"database" yaml:"database"`
	Log      LogCfg      `mapstructure:"log" yaml:"log"`
	CORS     CORSCfg     `mapstructure:"cors" yaml:"cors"`
	Tracing  TracingCfg  `mapstructure:"tracing" yaml:"tracing"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host" validate:"required"`
	Port string `mapstructure:"port" yaml:"port" validate:"required,numeric"`
}

// DatabaseCfg configures the SQLite store.
type DatabaseCfg struct {
	// Path is the database file. Empty means {home}/data/promptbox.db.
	// ":memory:" keeps everything in memory.
	Path string `mapstructure:"path" yaml:"path"`
	// Seed inserts sample folders and prompts into an empty database.
	Seed bool `mapstructure:"seed" yaml:"seed"`
}

// LogCfg configures the process logger.
type LogCfg struct {
	Level      string `mapstructure:"level" yaml:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
	File       string `mapstructure:"file" yaml:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// CORSCfg lists origins allowed to call the API from a browser.
// A single "*" allows any origin.
type CORSCfg struct {
	AllowOrigins []string `mapstructure:"allow_origins" yaml:"allow_origins" validate:"dive,required"`
}

// TracingCfg toggles OpenTelemetry request tracing.
type TracingCfg struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Database: DatabaseCfg{
			Seed: true,
		},
		Log: LogCfg{
			Level:      "info",
			Format:     logging.FormatConsole,
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		CORS: CORSCfg{
			AllowOrigins: []string{"*"},
		},
	}
}

// Logging converts the log section into a logging.Config.
func (c LogCfg) Logging() logging.Config {
	return logging.Config{
		Level:      c.Level,
		Format:     c.Format,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}
