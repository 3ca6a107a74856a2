// Package logging configures the global zerolog logger.
//
// Output goes to stderr by default. When a file is configured it goes to a
// lumberjack-rotated file instead; the terminal player always does this since
// it owns the tty.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lj "gopkg.in/natefinch/lumberjack.v2"

	"github.com/robalobadob/wordhunt/internal/config"
)

// Setup installs the global logger described by cfg and returns it together
// with a closer for the underlying file (a no-op for stderr).
func Setup(cfg config.LoggingConfig) (zerolog.Logger, io.Closer) {
	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Level)); err == nil && cfg.Level != "" {
		zerolog.SetGlobalLevel(lvl)
	}

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}
	toFile := strings.TrimSpace(cfg.File) != ""
	if toFile {
		f := &lj.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out, closer = f, f
	}

	l := New(out, cfg.Format, !toFile)
	log.Logger = l
	return l, closer
}

// New builds a timestamped logger writing to w in the given format.
func New(w io.Writer, format string, color bool) zerolog.Logger {
	if format != "json" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !color}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
