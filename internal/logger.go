package internal

import (
	"io"
	"log/slog"
	"time"
)

// NewLogger builds the process logger. Production emits JSON with RFC3339Nano
// timestamps; every other environment gets the text handler.
func NewLogger(w io.Writer, env string, level string) *slog.Logger {
	var h slog.Handler

	l := new(slog.LevelVar)
	l.Set(ParseLevel(level))

	switch env {
	case "prod":
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: l,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.String("time", a.Value.Time().Format(time.RFC3339Nano))
				}
				return a
			},
		})
	default:
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})
	}

	return slog.New(h).With(slog.String("service", "presswork"))
}

// ParseLevel maps a config string to a slog level. Unknown values fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	case "info", "":
		return slog.LevelInfo
	default:
		slog.Default().Warn("Invalid log level. Using default level: info", slog.String("value", level))
		return slog.LevelInfo
	}
}
