package main

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger builds a slog logger on a charmbracelet/log handler writing to
// stderr, so log lines never mix with answers on stdout.
func newLogger(level, format string) *slog.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.WarnLevel
	}

	formatter := log.TextFormatter
	switch format {
	case "json":
		formatter = log.JSONFormatter
	case "logfmt":
		formatter = log.LogfmtFormatter
	}

	handler := log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		Formatter:       formatter,
		ReportTimestamp: true,
		Prefix:          "mind",
	})
	return slog.New(handler)
}
