package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards everything. Presence expiry and
// frame drops log on hot paths, so tests silence them.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
