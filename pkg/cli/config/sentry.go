package config

import (
	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/airlift/pkg/domain/types"
)

// Sentry holds error reporting configuration
type Sentry struct {
	DSN string `masq:"secret"`
	Env string
}

// Flags returns CLI flags for error reporting configuration
func (c *Sentry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "sentry-dsn",
			Usage:       "Sentry DSN (empty to disable error reporting)",
			Destination: &c.DSN,
			Sources:     cli.EnvVars("AIRLIFT_SENTRY_DSN"),
		},
		&cli.StringFlag{
			Name:        "sentry-env",
			Usage:       "Sentry environment name",
			Destination: &c.Env,
			Sources:     cli.EnvVars("AIRLIFT_SENTRY_ENV"),
		},
	}
}

// Configure initializes the Sentry client. No DSN means reporting stays
// disabled and CaptureException becomes a no-op.
func (c *Sentry) Configure() error {
	if c.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         c.DSN,
		Environment: c.Env,
		Release:     types.Version,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to initialize sentry")
	}

	return nil
}
