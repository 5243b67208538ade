package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
	"github.com/urfave/cli/v3"
)

// Logger holds logger configuration
type Logger struct {
	Level  string
	Format string
}

// Flags returns CLI flags for logger configuration
func (c *Logger) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &c.Level,
			Sources:     cli.EnvVars("AIRLIFT_LOG_LEVEL"),
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "Log format (console, text, json)",
			Value:       "console",
			Destination: &c.Format,
			Sources:     cli.EnvVars("AIRLIFT_LOG_FORMAT"),
		},
	}
}

// Configure configures and returns a logger. Values tagged as secrets
// (API tokens, webhook URLs) are redacted on every handler.
func (c *Logger) Configure() (*slog.Logger, error) {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, goerr.New("invalid log level", goerr.V("level", c.Level))
	}

	redact := masq.New()

	var handler slog.Handler
	switch strings.ToLower(c.Format) {
	case "console":
		handler = clog.New(
			clog.WithWriter(os.Stderr),
			clog.WithLevel(level),
			clog.WithReplaceAttr(redact),
		)
	case "text":
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	case "json":
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: redact,
		})
	default:
		return nil, goerr.New("invalid log format", goerr.V("format", c.Format))
	}

	return slog.New(handler), nil
}
