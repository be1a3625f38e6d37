package slacknotifier

import (
	"context"

	"github.com/slack-go/slack"
)

type service struct {
	client SlackAPI
}

// SlackAPI is the subset of the Slack client the notifier uses.
type SlackAPI interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AuthTestContext(ctx context.Context) (*slack.AuthTestResponse, error)
}
