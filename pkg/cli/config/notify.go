package config

import (
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/airlift/pkg/domain/interfaces"
	"github.com/m-mizutani/airlift/pkg/infra/notify"
)

// Notify holds notification configuration
type Notify struct {
	SlackWebhookURL string `masq:"secret"`
}

// Flags returns CLI flags for notification configuration
func (c *Notify) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-webhook-url",
			Usage:       "Slack incoming webhook URL for result notifications",
			Destination: &c.SlackWebhookURL,
			Sources:     cli.EnvVars("AIRLIFT_SLACK_WEBHOOK_URL"),
		},
	}
}

// Configure builds a notifier, or nil when notifications are disabled
func (c *Notify) Configure() interfaces.Notifier {
	if c.SlackWebhookURL == "" {
		return nil
	}
	return notify.NewSlack(c.SlackWebhookURL)
}
