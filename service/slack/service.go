package slacknotifier

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/elC0mpa/cost-notifier/model"
)

func NewService(token string) *service {
	return &service{
		client: slack.New(token),
	}
}

// NewServiceWithClient injects a pre-built client, used by tests.
func NewServiceWithClient(client SlackAPI) *service {
	return &service{
		client: client,
	}
}

// PostRoot posts the summary message and returns its timestamp, which serves
// as the thread parent id for the detail message. No retries happen here;
// retries belong to the surrounding execution layer.
func (s *service) PostRoot(ctx context.Context, channel string, report model.ReportMessage) (string, error) {
	_, timestamp, err := s.client.PostMessageContext(ctx, channel,
		slack.MsgOptionText(report.RootText, false),
		slack.MsgOptionAttachments(toSlackAttachment(report.Root)),
	)
	if err != nil {
		return "", err
	}
	return timestamp, nil
}

// PostThreaded posts the breakdown as a reply under the root message.
func (s *service) PostThreaded(ctx context.Context, channel, parentID string, report model.ReportMessage) error {
	_, _, err := s.client.PostMessageContext(ctx, channel,
		slack.MsgOptionTS(parentID),
		slack.MsgOptionAttachments(toSlackAttachment(report.Detail)),
	)
	return err
}

// AuthCheck verifies the token against auth.test and returns the workspace
// it belongs to.
func (s *service) AuthCheck(ctx context.Context) (string, error) {
	response, err := s.client.AuthTestContext(ctx)
	if err != nil {
		return "", err
	}
	return response.Team, nil
}

func toSlackAttachment(attachment model.Attachment) slack.Attachment {
	fields := make([]slack.AttachmentField, 0, len(attachment.Fields))
	for _, field := range attachment.Fields {
		fields = append(fields, slack.AttachmentField{
			Title: field.Title,
			Value: field.Value,
			Short: true,
		})
	}

	return slack.Attachment{
		Color:  attachment.Color,
		Text:   attachment.Text,
		Fields: fields,
	}
}
