package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/aifirstlegal/masterclass-server/internal/config"
)

// New builds the process logger. Production writes JSON lines, other environments a console format.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithWriter(cfg, output(cfg.Environment))
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(cfg *config.Config, w io.Writer) zerolog.Logger {
	ctx := zerolog.New(w).
		Level(parseLevel(cfg.LogLevel)).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment)
	if cfg.LogPIILevel != "" {
		ctx = ctx.Str("pii_level", cfg.LogPIILevel)
	}
	return ctx.Logger()
}

func output(environment string) io.Writer {
	if environment == "production" {
		return os.Stdout
	}
	return zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
}

func parseLevel(raw string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(raw)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
