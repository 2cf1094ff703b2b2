package slack

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/metrics"
	"github.com/mauv0809/tierboard/internal/notifier"
	"github.com/slack-go/slack"
)

// Slack rejects section blocks whose text is longer than this.
const maxSectionText = 3000

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending leaderboards to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, text string, dryRun bool) (string, string, error) {
	if dryRun {
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "length", utf8.RuneCountInString(text))
		log.Debug("[Dry Run] Message body", "text", text)
		return "dry-run-channel", "dry-run-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		s.metrics.IncChatMessagesFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncChatMessagesSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// SendLeaderboard posts each message of an export in order.
func (s *Notifier) SendLeaderboard(ctx context.Context, kind leaderboard.Kind, messages []string, dryRun bool) (int, error) {
	for i, msg := range messages {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if _, _, err := s.sendMessage(ctx, msg, dryRun); err != nil {
			return i, fmt.Errorf("message %d of %d for %s board: %w", i+1, len(messages), kind, err)
		}
	}
	log.Info("Leaderboard posted", "board", kind, "messages", len(messages), "dry_run", dryRun)
	return len(messages), nil
}

// FormatLeaderboardResponse formats an export for a slash command response.
func (s *Notifier) FormatLeaderboardResponse(kind leaderboard.Kind, messages []string) (any, error) {
	return s.formatLeaderboard(kind, messages), nil
}

// FormatNoticeResponse formats a short reply only the caller sees.
func (s *Notifier) FormatNoticeResponse(text string) (any, error) {
	return s.formatNotice(text), nil
}

func boardTitle(kind leaderboard.Kind) string {
	switch kind {
	case leaderboard.Classic:
		return "Classic Leaderboard"
	case leaderboard.FFA:
		return "FFA Leaderboard"
	}
	return "Leaderboard"
}

func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-1]) + "…"
}

// formatLeaderboard creates a Block Kit message with one section per export message.
func (s *Notifier) formatLeaderboard(kind leaderboard.Kind, messages []string) slack.Message {
	blocks := make([]slack.Block, 0, 2*len(messages)+1)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 "+boardTitle(kind)+" 🏆", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	if len(messages) == 0 {
		blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", "No players on this leaderboard yet.", true, false), nil, nil))
		return inChannel(slack.NewBlockMessage(blocks...))
	}

	for i, msg := range messages {
		if i > 0 {
			blocks = append(blocks, slack.NewDividerBlock())
		}
		text := slack.NewTextBlockObject("plain_text", truncate(msg, maxSectionText), true, false)
		blocks = append(blocks, slack.NewSectionBlock(text, nil, nil))
	}
	return inChannel(slack.NewBlockMessage(blocks...))
}

func (s *Notifier) formatNotice(text string) slack.Message {
	msg := slack.NewBlockMessage(
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", text, false, false), nil, nil),
	)
	msg.ResponseType = "ephemeral"
	return msg
}

func inChannel(msg slack.Message) slack.Message {
	msg.ResponseType = "in_channel"
	return msg
}
