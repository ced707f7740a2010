package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup builds the root zerolog logger. Components derive sub-loggers
// from it via log.With().Str("component", ...).
//
// format "pretty" selects a human-readable console writer for local
// development; anything else emits JSON lines. An unknown level falls
// back to info.
func Setup(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(pickWriter(format)).
		With().
		Timestamp().
		Caller().
		Logger()
}

func pickWriter(format string) io.Writer {
	if format == "pretty" {
		return zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}
	return os.Stdout
}
