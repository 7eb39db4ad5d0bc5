package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Level is a slog level.
type Level = slog.Level

// Levels accepted by --log-level.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Format selects the slog handler.
type Format string

// Formats accepted by --log-format.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config describes the process logger.
type Config struct {
	Level  Level
	Format Format
	Output io.Writer // nil means os.Stderr
}

// DefaultConfig is the logger bodytmpl runs with when no flags are given:
// info and above, as text, on stderr, apart from bodies printed to stdout.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Format: FormatText, Output: os.Stderr}
}

// FromFlags builds a Config from --log-level and --log-format values,
// rejecting anything ParseLevel or ParseFormat would silently default.
func FromFlags(level, format string, w io.Writer) (Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(level) {
	case "", "debug", "info", "warn", "warning", "error":
		cfg.Level = ParseLevel(level)
	default:
		return Config{}, fmt.Errorf("invalid log level %q", level)
	}
	switch strings.ToLower(format) {
	case "", string(FormatText), string(FormatJSON):
		cfg.Format = ParseFormat(format)
	default:
		return Config{}, fmt.Errorf("invalid log format %q", format)
	}
	if w != nil {
		cfg.Output = w
	}
	return cfg, nil
}

// New builds a logger for cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(slog.NewTextHandler(out, opts))
}

// Init builds the process logger and installs it as the slog default. The
// CLI calls it once before a server or resource is constructed; the server
// then hands slog.Default() down to every mock's template resource.
func Init(cfg Config) *slog.Logger {
	logger := New(cfg)
	slog.SetDefault(logger)
	return logger
}

// Nop is the logger template resources and servers use until one is given.
func Nop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps a level name, in any case, to a Level. Unknown names are
// LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	}
	return LevelInfo
}

// ParseFormat maps a format name, in any case, to a Format. Anything but
// json is FormatText.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}
