package cli

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// setupLogger builds the command logger. tint keeps the output colorized and
// readable in terminals while staying structured.
func setupLogger(w io.Writer, level string) *slog.Logger {
	handler := tint.NewHandler(w, &tint.Options{
		Level: parseLevel(level),
	})
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
