package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger builds the process logger: JSON output in prod, text otherwise.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	var l = new(slog.LevelVar) // Info by default
	switch level {
	case "debug":
		l.Set(slog.LevelDebug)
	case "warn":
		l.Set(slog.LevelWarn)
	case "error":
		l.Set(slog.LevelError)
	case "info":
	default:
		slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
	}

	var h slog.Handler
	if env == "prod" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: l,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("time", a.Value.Time().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})
	}

	return slog.New(h)
}

// ComponentLogger returns a child logger tagged with the component name.
// Every package in the core logs through one of these.
func ComponentLogger(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return slog.Default().With(slog.String("component", component))
	}
	return logger.With(slog.String("component", component))
}
