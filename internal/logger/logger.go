package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// EnvLevel is the environment variable that supplies the default log level.
const EnvLevel = "LOG"

// DefaultLevel is used when neither a flag nor the environment names a level.
const DefaultLevel = "info"

// NewConsole creates a human-readable logger on w at the given level.
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewWithWriter creates a JSON logger with a custom writer
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a user supplied verbosity to a zerolog level.
// An empty string means DefaultLevel.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		s = DefaultLevel
	case "warning":
		s = "warn"
	case "off", "none":
		return zerolog.Disabled, nil
	}

	level, err := zerolog.ParseLevel(s)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// LevelFromEnv returns the level named by EnvLevel, or DefaultLevel.
func LevelFromEnv() string {
	if v, ok := os.LookupEnv(EnvLevel); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return DefaultLevel
}

// WithFields adds structured fields to a logger
func WithFields(logger zerolog.Logger, fields map[string]interface{}) zerolog.Logger {
	ctx := logger.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return ctx.Logger()
}
