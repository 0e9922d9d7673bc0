// Package logging builds the logrus loggers used by the shell and the server.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"vibe_studio/internal/config"
)

// New returns a text logger writing to out at the configured level.
// An unknown level falls back to info.
func New(cfg config.LogConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	return log
}

// OpenFile returns a logger appending to path. The terminal owns stdout
// while the shell runs, so the shell logs here instead. Close the
// returned io.Closer on exit.
func OpenFile(cfg config.LogConfig, path string) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	log := New(cfg, f)
	log.SetFormatter(&logrus.JSONFormatter{})
	return log, f, nil
}

// Discard returns a logger that drops everything
func Discard() *logrus.Logger {
	return New(config.LogConfig{Level: "panic"}, io.Discard)
}
