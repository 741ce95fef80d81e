// Package logging builds the application's zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures NewLogger.
type Options struct {
	Level string
	// File enables a rotating log file in addition to stdout when non-empty.
	File string
	// JSON writes JSON to stdout instead of the human-readable console format.
	JSON bool
}

// NewLogger creates the process logger and installs it as the zerolog global
// logger. It returns a closer for the log file, if any.
func NewLogger(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	var stdout io.Writer = os.Stdout
	if !opts.JSON {
		stdout = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	writers := []io.Writer{stdout}
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100, // megabytes
			MaxBackups: 7,
			MaxAge:     30, // days
			Compress:   true,
		}
		writers = append(writers, file)
		closer = file
	}

	var writer io.Writer = writers[0]
	if len(writers) > 1 {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	log.Logger = logger

	return logger, closer, nil
}

// ParseLevel maps a level name to a zerolog level. An empty name means info.
func ParseLevel(name string) (zerolog.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
