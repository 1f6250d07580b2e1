package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup installs a text logger on stdout as the default slog logger.
func Setup(level, service string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	logger = logger.With("service", service)

	slog.SetDefault(logger)

	return logger
}
