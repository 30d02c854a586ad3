package log

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w. format is "json" or "console";
// level is a zerolog level name and falls back to info when unknown.
func New(w io.Writer, level, format string) zerolog.Logger {
	out := w
	if format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("app", "htmlclean").
		Logger()
}
