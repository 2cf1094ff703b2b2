package notifier

import (
	"context"
	"sync"

	"github.com/mauv0809/tierboard/internal/leaderboard"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendLeaderboardFunc           func(ctx context.Context, kind leaderboard.Kind, messages []string, dryRun bool) (int, error)
	FormatLeaderboardResponseFunc func(kind leaderboard.Kind, messages []string) (any, error)

	// Call records
	SendLeaderboardCalls []struct {
		Kind     leaderboard.Kind
		Messages []string
		DryRun   bool
	}
	FormatNoticeResponseCalls []string

	LastLeaderboardResponse any
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = nil
	m.FormatNoticeResponseCalls = nil
	m.LastLeaderboardResponse = nil
}

func (m *Mock) SendLeaderboard(ctx context.Context, kind leaderboard.Kind, messages []string, dryRun bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendLeaderboardCalls = append(m.SendLeaderboardCalls, struct {
		Kind     leaderboard.Kind
		Messages []string
		DryRun   bool
	}{kind, messages, dryRun})
	if m.SendLeaderboardFunc != nil {
		return m.SendLeaderboardFunc(ctx, kind, messages, dryRun)
	}
	return len(messages), nil
}

func (m *Mock) FormatLeaderboardResponse(kind leaderboard.Kind, messages []string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FormatLeaderboardResponseFunc != nil {
		resp, err := m.FormatLeaderboardResponseFunc(kind, messages)
		m.LastLeaderboardResponse = resp
		return resp, err
	}
	m.LastLeaderboardResponse = "formatted_leaderboard"
	return m.LastLeaderboardResponse, nil
}

func (m *Mock) FormatNoticeResponse(text string) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FormatNoticeResponseCalls = append(m.FormatNoticeResponseCalls, text)
	return "formatted_notice", nil
}
