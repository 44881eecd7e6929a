package osc

import (
	"io"
	"log/slog"
)

// discardLogger returns a logger for tests that exercise logging paths
// without caring about output.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
