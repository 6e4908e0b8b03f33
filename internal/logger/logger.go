package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the global SugaredLogger instance.
// Initialized with a no-op logger until Initialize is called.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Initialize sets up the global logger with the given log level.
func Initialize(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = logger.Sugar()
	return nil
}

// Query logs a single SQL statement with its arguments, result and error.
// The query text is collapsed to one line. Failed statements go to the error level.
func Query(query string, args []any, result any, err error) {
	fields := []any{
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
	}
	if err != nil {
		Log.Errorw("query failed", append(fields, "error", err)...)
		return
	}
	Log.Debugw("query", fields...)
}
