package logger

import (
	"go.uber.org/zap"
)

var logger = zap.NewNop().Sugar()

// Init initializes the global logger with the specified verbose level
func Init(verbose bool) {
	level := zap.WarnLevel
	if verbose {
		level = zap.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		return
	}

	zap.ReplaceGlobals(l)
	logger = l.Sugar()
}

// Debug logs a debug message with structured key-value pairs
func Debug(msg string, args ...any) {
	logger.Debugw(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	logger.Infow(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	logger.Warnw(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	logger.Errorw(msg, args...)
}

// Close flushes any buffered log entries
func Close() {
	_ = logger.Sync()
}
