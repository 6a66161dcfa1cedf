package logger

import (
	"log/slog"
	"os"
)

// SetupPrettySlog returns a human-readable handler for local runs. Structured
// JSON output for dev/prod is configured in components.SetupLogger.
func SetupPrettySlog() *slog.Logger {
	return slog.New(
		slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}),
	)
}
