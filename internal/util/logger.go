package util

import (
	"log/slog"
	"os"
)

// Logger is the package-level default logger, used whenever no
// context-scoped logger is available.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(Logger)
}
