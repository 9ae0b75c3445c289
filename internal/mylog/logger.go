package mylog

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/habiliai/svccontainer/config"
	"github.com/habiliai/svccontainer/container"
	"github.com/lmittmann/tint"
)

type Logger = slog.Logger

const Key = "logger"

func ToLogLevel(logLevel string) slog.Level {
	switch logLevel {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func NewLogger(logLevel string, logHandler string) *Logger {
	return NewLoggerTo(os.Stderr, logLevel, logHandler)
}

func NewLoggerTo(w io.Writer, logLevel string, logHandler string) *Logger {
	slogLevel := ToLogLevel(logLevel)

	var handler slog.Handler
	switch logHandler {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource: true,
			Level:     slogLevel,
		})
	default:
		handler = newHandler(slogLevel, w)
	}

	return slog.New(handler)
}

func newHandler(level slog.Level, w io.Writer) slog.Handler {
	noColor := true
	if f, ok := w.(*os.File); ok {
		noColor = !isTerminal(f)
	}

	return tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	})
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice != 0
}

// Get builds the logger described by the container's configuration.
func Get(c *container.Erased) *Logger {
	return container.Build(c, Key, func(c *container.Erased) *Logger {
		conf := config.Get(c)
		return NewLogger(conf.LogLevel, conf.LogHandler)
	})
}
