package logger

import (
	"digital-goods-fulfillment/internal/config"
	"io"
	"log/slog"
	"strings"
)

// New builds the process logger from the LOG_LEVEL and LOG_FORMAT settings.
// Unknown levels fall back to info, unknown formats to json.
func New(logCfg *config.Log, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(logCfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(logCfg.Format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
