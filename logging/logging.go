// Package logging builds the structured logger used by the server and CLI.
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level
	Level string `mapstructure:"level"`

	// Format is the output format (json, console)
	Format string `mapstructure:"format"`

	// Output is stderr or a file path. stdout carries the MCP transport.
	Output string `mapstructure:"output"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stderr",
	}
}

// New builds a zap logger from cfg.
func New(cfg Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		parsed, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "", "console":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unsupported log format %q", cfg.Format)
	}

	var writeSyncer zapcore.WriteSyncer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		writeSyncer = zapcore.Lock(zapcore.AddSync(os.Stderr))
	case "stdout":
		return nil, fmt.Errorf("log output stdout is reserved for the MCP stdio transport")
	default:
		//nolint:gosec // G304: path comes from operator configuration
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		writeSyncer = zapcore.Lock(zapcore.AddSync(file))
	}

	return zap.New(zapcore.NewCore(encoder, writeSyncer, level), zap.AddCaller()), nil
}
