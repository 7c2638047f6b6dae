// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logger configuration.
type Config struct {
	Level  string
	Format string // text | json
	File   string // optional rotating log file, in addition to stderr
}

var (
	mu      sync.RWMutex
	base    = newLogger(os.Stderr, log.InfoLevel, log.TextFormatter)
	rotator *lumberjack.Logger
)

// Init replaces the global logger according to cfg.
func Init(cfg Config) error {
	level := log.InfoLevel
	if strings.TrimSpace(cfg.Level) != "" {
		parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
		if err != nil {
			return err
		}
		level = parsed
	}

	formatter := log.TextFormatter
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		formatter = log.JSONFormatter
	}

	var writer io.Writer = os.Stderr
	var fileWriter *lumberjack.Logger
	if path := strings.TrimSpace(cfg.File); path != "" {
		fileWriter = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		writer = io.MultiWriter(os.Stderr, fileWriter)
	}

	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		_ = rotator.Close()
	}
	rotator = fileWriter
	base = newLogger(writer, level, formatter)
	log.SetDefault(base)
	return nil
}

// Close flushes and closes the rotating log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if rotator == nil {
		return nil
	}
	err := rotator.Close()
	rotator = nil
	return err
}

// Default returns the global logger.
func Default() *log.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// For returns the global logger tagged with a component prefix.
func For(component string) *log.Logger {
	return Default().WithPrefix(component)
}

// NewWriter builds a standalone logger, mostly for tests.
func NewWriter(w io.Writer, level log.Level) *log.Logger {
	return newLogger(w, level, log.TextFormatter)
}

func newLogger(w io.Writer, level log.Level, formatter log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
		Formatter:       formatter,
	})
}
