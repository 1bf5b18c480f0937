package app

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/heartmarshall/instant-voices/internal/config"
)

// maxLoggedDataURL bounds how much of an inline audio data URL reaches a log line.
const maxLoggedDataURL = 64

// NewLogger builds the process logger from cfg, installs it as the slog
// default and returns it. Output goes to stderr.
//
// "json" is the production format; "text" adds source positions for local
// runs. Unknown levels fall back to info.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	logger := newLogger(os.Stderr, cfg)
	slog.SetDefault(logger)
	return logger
}

func newLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       parseLevel(cfg.Level),
		AddSource:   strings.EqualFold(cfg.Format, "text"),
		ReplaceAttr: scrub,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler).With(
		slog.String("app", Name),
		slog.String("version", Version),
	)
}

// scrub hides session tokens and shortens inline audio before it is written.
func scrub(_ []string, a slog.Attr) slog.Attr {
	switch strings.ToLower(a.Key) {
	case "token", "authorization", "session_secret":
		return slog.String(a.Key, "[redacted]")
	}
	if a.Value.Kind() == slog.KindString {
		s := a.Value.String()
		if strings.HasPrefix(s, "data:") && len(s) > maxLoggedDataURL {
			return slog.String(a.Key, s[:maxLoggedDataURL]+"...("+strconv.Itoa(len(s))+" bytes)")
		}
	}
	return a
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
