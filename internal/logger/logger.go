// Package logger builds the zerolog root logger shared by every component.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"forumapi/internal/config"
)

// New returns a JSON logger writing to stdout, or a console logger when
// cfg.Pretty is set. Timestamps are rendered in loc.
func New(cfg config.LogConfig, loc *time.Location) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return NewWithWriter(w, cfg.Level, loc)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, level string, loc *time.Location) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	if loc == nil {
		loc = time.UTC
	}
	zerolog.TimestampFieldName = "ts"
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.TimestampFunc = func() time.Time { return time.Now().In(loc) }

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
