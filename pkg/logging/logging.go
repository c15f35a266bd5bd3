package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

type (
	// Level is a slog level.
	Level = slog.Level
	// Format selects the slog handler.
	Format string
)

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError

	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config selects the level, handler and destination of a logger. The zero
// Config logs Info and above as text to stderr.
type Config struct {
	Level     Level
	Format    Format
	Output    io.Writer // nil means os.Stderr
	AddSource bool
}

// New builds a logger from cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// Nop returns a logger that drops every record.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *slog.Logger) *slog.Logger {
	if l == nil {
		return Nop()
	}
	return l
}

// ParseLevel accepts slog level names in any case, with an optional offset
// ("warn+2"), and "warning". Anything else is LevelInfo.
func ParseLevel(s string) Level {
	if strings.EqualFold(s, "warning") {
		return LevelWarn
	}
	var l Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return LevelInfo
	}
	return l
}

// ParseFormat returns FormatJSON for "json" in any case and FormatText
// otherwise.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}
