// Package logger provides the process-wide structured logger used by plugin-index.
//
// It wraps a zap SugaredLogger so callers can use printf-style helpers
// (Infof, Warnf, ...) without threading a logger through every function.
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu          sync.RWMutex
	sugar       = zap.NewNop().Sugar()
	atomicLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// ParseLevel converts a textual level (debug, info, warn, error) into a zap level.
// Unknown or empty values map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Initialize builds a console logger writing to stderr at the given level and
// installs it as the package logger. Stdout stays free for command output.
func Initialize(level zapcore.Level) error {
	atomicLevel.SetLevel(level)

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = atomicLevel
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.EncoderConfig.CallerKey = ""

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	Set(l)
	return nil
}

// Set replaces the package logger. Tests use it with zaptest/observer loggers.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	sugar = l.Sugar()
}

// SetLevel changes the level of a logger created by Initialize.
func SetLevel(level zapcore.Level) {
	atomicLevel.SetLevel(level)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = get().Sync()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debugf logs at debug level
func Debugf(template string, args ...any) { get().Debugf(template, args...) }

// Infof logs at info level
func Infof(template string, args ...any) { get().Infof(template, args...) }

// Warnf logs at warn level
func Warnf(template string, args ...any) { get().Warnf(template, args...) }

// Errorf logs at error level
func Errorf(template string, args ...any) { get().Errorf(template, args...) }

// Infow logs a message with structured key/value context
func Infow(msg string, keysAndValues ...any) { get().Infow(msg, keysAndValues...) }
