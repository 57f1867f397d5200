// Package logging configures the process-wide charmbracelet logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const defaultLevel = log.InfoLevel

// Setup sends log output to w at the level named by GRIDSNAKE_LOG_LEVEL.
func Setup(w io.Writer, prefix string) error {
	level := defaultLevel
	if name := strings.TrimSpace(os.Getenv("GRIDSNAKE_LOG_LEVEL")); name != "" {
		parsed, err := log.ParseLevel(name)
		if err != nil {
			return fmt.Errorf("parse GRIDSNAKE_LOG_LEVEL: %w", err)
		}
		level = parsed
	}

	log.SetOutput(w)
	log.SetLevel(level)
	log.SetPrefix(prefix)
	log.SetReportTimestamp(true)
	return nil
}

// OpenFile opens path for appending log lines. The terminal runner logs to a
// file because its UI owns the screen.
func OpenFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}
