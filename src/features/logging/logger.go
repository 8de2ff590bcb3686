package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/contre95/lyr/src/features/config"
)

// SetupLogger builds the process logger from the configuration.
// Logs always go to stderr so stdout only ever carries lyrics.
func SetupLogger(cfg *config.Manager, verbose bool) *slog.Logger {
	logger := slog.New(newHandler(os.Stderr, cfg.Get().Logger, verbose))
	logger.Debug("Logger initialized", "time", time.Now().Format(time.RFC3339))
	return logger
}

func newHandler(w io.Writer, cfg config.Logger, verbose bool) *log.Logger {
	if !cfg.Enabled && !verbose {
		w = io.Discard
	}

	var formatter log.Formatter
	switch cfg.Format {
	case "json":
		formatter = log.JSONFormatter
	case "text":
		formatter = log.TextFormatter
	default:
		formatter = log.LogfmtFormatter
	}

	level := log.InfoLevel
	switch cfg.Level {
	case "debug":
		level = log.DebugLevel
	case "warn":
		level = log.WarnLevel
	case "error":
		level = log.ErrorLevel
	}
	if verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportCaller:    level == log.DebugLevel,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "lyr",
		Formatter:       formatter,
		Level:           level,
	})
}
