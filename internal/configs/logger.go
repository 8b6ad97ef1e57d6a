package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the application logger. Local runs get a console writer
// and trace level unless LOG_LEVEL says otherwise.
func NewLogger(cfg Config) zerolog.Logger {
	zerolog.TimestampFieldName = "timestamp"

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	w := io.Writer(os.Stdout)
	if cfg.Env == EnvLocal {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = os.Stdout
		w = consoleWriter
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("env", cfg.Env).
		Int("pid", os.Getpid()).
		Logger()
}
