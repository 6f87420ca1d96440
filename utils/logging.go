package utils

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// SetupLogger installs the default slog logger. Development gets colored tint
// output on stderr; production gets JSON on stdout so log shippers can parse it.
func SetupLogger() *slog.Logger {
	var logger *slog.Logger
	if IsProduction {
		logger = NewJSONLogger(os.Stdout, LevelFromEnv())
	} else {
		logger = slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      LevelFromEnv(),
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}))
	}
	slog.SetDefault(logger)
	return logger
}

func NewJSONLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// LevelFromEnv reads LOG_LEVEL (debug, info, warn, error). Default: info.
func LevelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
