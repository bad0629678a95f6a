// Package logging builds the zerolog logger shared by the server, the migrator and tracing setup.
package logging

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"secondopinion/internal/config"
)

// New returns a JSON logger writing to w, or a console logger when cfg.Pretty is set.
// Unknown levels fall back to info.
func New(cfg config.LogConfig, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
