// SPDX-License-Identifier: AGPL-3.0-only
package logging

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures a Logger.
type Options struct {
	// Level is one of: debug, info, warn, error. Defaults to info.
	Level string
	// FilePath, when non-empty, sends output to the given file instead of stdout.
	FilePath string
}

// Logger is a thin wrapper around a zap sugared logger so call sites stay
// independent of the logging backend.
type Logger struct {
	sugar *zap.SugaredLogger
}

var (
	defaultLogger *Logger
	defaultMu     sync.RWMutex
)

// New creates a Logger with the given options.
func New(opts Options) *Logger {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		// Unknown level strings fall back to info rather than failing startup.
		_ = level.UnmarshalText([]byte(opts.Level))
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	var sink zapcore.WriteSyncer = zapcore.AddSync(os.Stdout)
	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			sink = zapcore.AddSync(f)
		}
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), sink, level)
	return &Logger{sugar: zap.New(core).Sugar()}
}

// WithField returns a child logger carrying the given key/value on every entry.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{sugar: l.sugar.With(key, value)}
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warnf logs at warn level.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Fatalf logs at fatal level and exits.
func (l *Logger) Fatalf(format string, args ...interface{}) {
	l.sugar.Fatalf(format, args...)
}

// Sync flushes buffered log entries.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// SetDefaultLogger installs the process-wide default logger.
func SetDefaultLogger(l *Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// GetDefaultLogger returns the process-wide default logger, creating a plain
// info-level stdout logger on first use.
func GetDefaultLogger() *Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = New(Options{})
	}
	return defaultLogger
}
