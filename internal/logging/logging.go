// Package logging builds the process logger: a *slog.Logger backed by a zap
// core that writes to the console and, optionally, a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Formats accepted by Config.Format.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config controls the logger. File is optional; when empty only the
// console output is written.
type Config struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger is a *slog.Logger whose level can be changed at runtime.
type Logger struct {
	*slog.Logger

	level    zap.AtomicLevel
	zap      *zap.Logger
	buffered *zapcore.BufferedWriteSyncer
}

// New builds a Logger writing to console (os.Stdout when nil) and, if
// cfg.File is set, to a lumberjack-rotated file.
func New(cfg Config, console io.Writer) (*Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	atomic := zap.NewAtomicLevelAt(level)

	if console == nil {
		console = os.Stdout
	}
	sinks := []zapcore.WriteSyncer{zapcore.AddSync(console)}

	var buffered *zapcore.BufferedWriteSyncer
	if cfg.File != "" {
		buffered = &zapcore.BufferedWriteSyncer{
			WS: zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.File,
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   cfg.Compress,
			}),
			Size:          256 * 1024,
			FlushInterval: 5 * time.Second,
		}
		sinks = append(sinks, buffered)
	}

	encoder, err := newEncoder(cfg.Format)
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(encoder, zapcore.NewMultiWriteSyncer(sinks...), atomic)

	return &Logger{
		Logger:   slog.New(zapslog.NewHandler(core, zapslog.WithCaller(true))),
		level:    atomic,
		zap:      zap.New(core),
		buffered: buffered,
	}, nil
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	l, _ := New(Config{Level: "error"}, io.Discard)
	return l
}

// SetLevel changes the minimum level without rebuilding the logger.
func (l *Logger) SetLevel(level string) error {
	lvl, err := parseLevel(level)
	if err != nil {
		return err
	}
	if l.level.Level() != lvl {
		l.level.SetLevel(lvl)
		l.Info("log level changed", "level", lvl.String())
	}
	return nil
}

// Level returns the current minimum level name.
func (l *Logger) Level() string {
	return l.level.Level().String()
}

// Close flushes buffered output and stops the file flusher.
func (l *Logger) Close() error {
	_ = l.zap.Sync()
	if l.buffered != nil {
		return l.buffered.Stop()
	}
	return nil
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return lvl, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

func newEncoder(format string) (zapcore.Encoder, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	switch format {
	case "", FormatJSON:
		return zapcore.NewJSONEncoder(encoderConfig), nil
	case FormatConsole:
		return zapcore.NewConsoleEncoder(encoderConfig), nil
	default:
		return nil, fmt.Errorf("invalid log format %q (want json or console)", format)
	}
}
