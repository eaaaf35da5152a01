// Package logger provides leveled logging for signin.
// Messages go through a package-level zap logger; Debug output and
// section headers only appear when verbose mode is enabled via --verbose.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	level   = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar   = build(os.Stderr)
)

func build(w io.Writer) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), level)
	return zap.New(core).Sugar()
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.InfoLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	sugar = build(w)
}

// Get returns the underlying sugared logger for structured key/value logging.
func Get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	Get().Debugf(format, args...)
}

// Section logs a section header if verbose mode is enabled.
func Section(name string) {
	Get().Debugf("=== %s ===", name)
}

// Info logs an informational message.
func Info(format string, args ...any) {
	Get().Infof(format, args...)
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	Get().Warnf(format, args...)
}

// Error logs an error message.
func Error(format string, args ...any) {
	Get().Errorf(format, args...)
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Get().Sync()
}
