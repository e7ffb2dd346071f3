package logger

import (
	"log/slog"
	"os"
)

// New returns the process logger. JSON output keeps log aggregation simple;
// services receive this via functional options rather than reading a global.
func New(environment string) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil)).With("env", environment)
}
