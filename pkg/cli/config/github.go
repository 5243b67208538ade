package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/airlift/pkg/domain/interfaces"
	"github.com/m-mizutani/airlift/pkg/infra/github"
)

// GitHub holds release API configuration
type GitHub struct {
	Endpoint string
	Token    string `masq:"secret"`
}

// Flags returns CLI flags for release API configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-endpoint",
			Usage:       "Release API endpoint",
			Value:       "https://api.github.com",
			Destination: &c.Endpoint,
			Sources:     cli.EnvVars("AIRLIFT_GITHUB_ENDPOINT"),
		},
		&cli.StringFlag{
			Name:        "github-token",
			Usage:       "Bearer token for the release API (for private repositories and rate limits)",
			Destination: &c.Token,
			Sources:     cli.EnvVars("AIRLIFT_GITHUB_TOKEN"),
		},
	}
}

// Configure builds a release metadata client from the configuration
func (c *GitHub) Configure() interfaces.ReleaseSource {
	var opts []github.Option
	if c.Endpoint != "" {
		opts = append(opts, github.WithEndpoint(c.Endpoint))
	}
	if c.Token != "" {
		opts = append(opts, github.WithToken(c.Token))
	}
	return github.New(opts...)
}
