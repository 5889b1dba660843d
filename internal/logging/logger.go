package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// New builds a slog.Logger writing to w (stderr when nil) at the given level.
// Format "json" selects the JSON handler; anything else is text.
func New(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps a level name to a slog level, defaulting to info.
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

// Printf adapts a slog.Logger to the printf-style Debugf/Infof/Warnf/Errorf interface
// the calculation engine logs through.
type Printf struct {
	Logger *slog.Logger
}

// NewPrintf wraps l; a nil l uses slog.Default().
func NewPrintf(l *slog.Logger) Printf {
	if l == nil {
		l = slog.Default()
	}
	return Printf{Logger: l}
}

func (p Printf) logf(level slog.Level, format string, args ...any) {
	if !p.Logger.Enabled(context.Background(), level) {
		return
	}
	p.Logger.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

func (p Printf) Debugf(format string, args ...any) { p.logf(slog.LevelDebug, format, args...) }
func (p Printf) Infof(format string, args ...any)  { p.logf(slog.LevelInfo, format, args...) }
func (p Printf) Warnf(format string, args ...any)  { p.logf(slog.LevelWarn, format, args...) }
func (p Printf) Errorf(format string, args ...any) { p.logf(slog.LevelError, format, args...) }
