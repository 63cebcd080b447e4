// Package logger provides the process-wide hclog logger and helpers to
// derive named sub-loggers for modules.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

var (
	mu   sync.RWMutex
	root hclog.Logger = hclog.New(&hclog.LoggerOptions{
		Name:   "lineup",
		Level:  hclog.Info,
		Output: os.Stderr,
	})
)

// Options controls how the root logger is built
type Options struct {
	Level  string
	Format string // "text" or "json"
	Output io.Writer
}

// Configure rebuilds the root logger. Loggers derived earlier keep their
// previous settings, so call this before modules are initialized.
func Configure(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	l := hclog.New(&hclog.LoggerOptions{
		Name:            "lineup",
		Level:           ParseLevel(opts.Level),
		Output:          out,
		JSONFormat:      strings.EqualFold(opts.Format, "json"),
		IncludeLocation: false,
	})

	mu.Lock()
	root = l
	mu.Unlock()
	return l
}

// ParseLevel maps a config string onto an hclog level, defaulting to info
func ParseLevel(level string) hclog.Level {
	lvl := hclog.LevelFromString(strings.TrimSpace(level))
	if lvl == hclog.NoLevel {
		return hclog.Info
	}
	return lvl
}

// SetLevel changes the level of the root logger in place
func SetLevel(level string) {
	Get().SetLevel(ParseLevel(level))
}

// Get returns the root logger
func Get() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns a sub-logger of the root logger
func Named(name string) hclog.Logger {
	return Get().Named(name)
}

// Discard returns a logger that drops everything, for tests
func Discard() hclog.Logger {
	return hclog.NewNullLogger()
}

// Info logs at info level using key/value pairs
func Info(msg string, args ...interface{}) {
	Get().Info(msg, args...)
}

// Warn logs at warn level using key/value pairs
func Warn(msg string, args ...interface{}) {
	Get().Warn(msg, args...)
}

// Error logs at error level using key/value pairs
func Error(msg string, args ...interface{}) {
	Get().Error(msg, args...)
}

// Debug logs at debug level using key/value pairs
func Debug(msg string, args ...interface{}) {
	Get().Debug(msg, args...)
}
