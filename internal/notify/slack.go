package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackPoster is the subset of *slack.Client used by SlackNotifier.
type SlackPoster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts messages with a Slack bot token.
type SlackNotifier struct {
	client    SlackPoster
	channelID string
}

// NewSlackNotifier creates a SlackNotifier for a bot token and channel.
func NewSlackNotifier(botToken, channelID string) *SlackNotifier {
	return &SlackNotifier{
		client:    slack.New(botToken),
		channelID: channelID,
	}
}

// Notify posts message to the configured channel.
func (s *SlackNotifier) Notify(ctx context.Context, message string) error {
	channelID := s.channelID
	if channelID == "" {
		return fmt.Errorf("slack channel is not configured")
	}

	_, _, err := s.client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(truncate(message, slackMaxText), false),
		slack.MsgOptionDisableLinkUnfurl(),
	)
	if err != nil {
		return fmt.Errorf("failed to send slack notification: %w", err)
	}
	return nil
}
