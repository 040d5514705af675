// Package logging builds the zap loggers used by the commands. The dashboard
// owns the terminal, so it only logs to a file and only when asked to.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const DebugEnv = "BUDGETVIEW_DEBUG"

// DebugEnabled reports whether BUDGETVIEW_DEBUG is set to anything but a
// false-like value.
func DebugEnabled() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(DebugEnv)))
	return v != "" && v != "0" && v != "false"
}

// ForDashboard returns a debug-level JSON logger writing to path when debug
// logging is enabled, otherwise a no-op logger.
func ForDashboard(path string) (*zap.Logger, error) {
	if !DebugEnabled() {
		return zap.NewNop(), nil
	}
	return ToFile(path, zapcore.DebugLevel)
}

// ToFile appends JSON lines at level and above to path.
func ToFile(path string, level zapcore.Level) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: create log dir: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Sampling = nil

	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build file logger: %w", err)
	}
	return log, nil
}

// ForServer logs JSON to stderr, at debug level when debug is enabled.
func ForServer() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if DebugEnabled() {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build server logger: %w", err)
	}
	return log, nil
}
