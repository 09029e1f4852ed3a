package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// SlogConfig описывает параметры логгера
type SlogConfig struct {
	Level  string    // "debug", "info", "warn", "error"
	Format string    // "json" или "text"
	Output io.Writer // по умолчанию os.Stdout
}

// ParseLevel переводит строковый уровень из конфигурации в slog.Level.
// Неизвестные значения трактуются как info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewSlog создаёт и настраивает slog.Logger
func NewSlog(cfg SlogConfig) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		// timestamp в человекочитаемом виде
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				a.Value = slog.StringValue(a.Value.Time().Format(time.RFC3339))
			}
			return a
		}
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(handler).With("service", "connectapp")
}

// Discard возвращает логгер, который ничего не пишет. Используется в тестах.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
