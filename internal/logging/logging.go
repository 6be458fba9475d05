// Package logging sets up structured logging for the corpusplan tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rgehrsitz/corpusplan/internal/config"
)

// New builds a logger writing to out through a console writer, plus a
// rotating file when settings name one. Colour is used only when out is a
// terminal.
func New(settings config.LogSettings, out io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(settings.Level))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", settings.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal(out),
	}
	writers := []io.Writer{consoleWriter}

	if settings.File != "" {
		if err := os.MkdirAll(filepath.Dir(settings.File), 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to create log directory: %w", err)
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   settings.File,
			MaxSize:    settings.MaxSizeMB, // megabytes
			MaxBackups: settings.MaxBackups,
			MaxAge:     30, // days
			Compress:   true,
		})
	}

	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// Init installs a logger built from settings as the global zerolog logger
// and returns it. A nil out means stderr.
func Init(settings config.LogSettings, out io.Writer) (zerolog.Logger, error) {
	if out == nil {
		out = os.Stderr
	}
	logger, err := New(settings, out)
	if err != nil {
		return zerolog.Nop(), err
	}
	log.Logger = logger
	return logger, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
