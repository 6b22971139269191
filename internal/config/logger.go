package config

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger described by cfg. Logs go to
// cfg.LogFile, or nowhere when it is empty, so they never fight with the
// terminal renderer. The returned close func is always safe to call.
func NewLogger(cfg Config, prefix string) (*log.Logger, func() error, error) {
	var (
		w       io.Writer = io.Discard
		closeFn           = func() error { return nil }
	)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return log.New(io.Discard), closeFn, fmt.Errorf("open log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.SetLevel(log.InfoLevel)
		return logger, closeFn, fmt.Errorf("log level %q: %w", cfg.LogLevel, err)
	}
	logger.SetLevel(level)
	return logger, closeFn, nil
}
