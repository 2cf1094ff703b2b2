package notifier

import (
	"context"

	"github.com/mauv0809/tierboard/internal/leaderboard"
)

// Notifier defines a high-level interface for sending leaderboards to a chat channel.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	// SendLeaderboard posts the messages of an export in order and returns how
	// many were posted. It stops at the first failure.
	SendLeaderboard(ctx context.Context, kind leaderboard.Kind, messages []string, dryRun bool) (int, error)

	// For formatting responses for slash commands
	FormatLeaderboardResponse(kind leaderboard.Kind, messages []string) (any, error)
	FormatNoticeResponse(text string) (any, error)
}
