package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/airlift/pkg/cli/config"
	"github.com/m-mizutani/airlift/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var logger *slog.Logger

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "airlift",
		Usage:   "Download release assets and install them atomically",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}

			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdGet(),
			cmdInfo(),
			cmdSync(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))

		sentry.CaptureException(err)
		sentry.Flush(2 * time.Second)
		return err
	}

	return nil
}
