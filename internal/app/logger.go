package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process logger. Logs go to stderr so the run
// summary on stdout stays machine-parseable; LOG_FORMAT=json switches
// to JSON for scheduled runs whose output lands in a collector.
func NewLogger(cfg *Config) *slog.Logger {
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	return slog.New(handler).With(slog.String("service", "aurora-seed"))
}
