package notify

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/m-mizutani/airlift/pkg/domain/interfaces"
)

type slackNotifier struct {
	webhookURL string
}

// NewSlack creates a notifier posting to a Slack incoming webhook
func NewSlack(webhookURL string) interfaces.Notifier {
	return &slackNotifier{webhookURL: webhookURL}
}

// Notify posts msg as a plain text message
func (x *slackNotifier) Notify(ctx context.Context, msg string) error {
	payload := &slack.WebhookMessage{
		Username: "airlift",
		Text:     msg,
	}

	if err := slack.PostWebhookContext(ctx, x.webhookURL, payload); err != nil {
		return goerr.Wrap(err, "failed to post slack webhook")
	}

	return nil
}
