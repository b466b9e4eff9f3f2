package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Production forces the JSON handler at
// info level for log shipping; elsewhere LOG_FORMAT picks the handler and the
// level drops to debug.
func NewLogger(cfg *Config) *slog.Logger {
	level := slog.LevelDebug
	if cfg.IsProduction() {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() || cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
