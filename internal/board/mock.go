package board

import (
	"sync"

	"github.com/mauv0809/tierboard/internal/leaderboard"
)

// MockStore is a mock implementation of the BoardStore interface for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	GetPlayersFunc    func(kind leaderboard.Kind) ([]Player, error)
	AddPlayerFunc     func(kind leaderboard.Kind, p leaderboard.Player) (Player, error)
	UpdatePlayerFunc  func(kind leaderboard.Kind, oldName string, p leaderboard.Player) (Player, error)
	RemovePlayerFunc  func(kind leaderboard.Kind, name string) error
	SwapPositionsFunc func(kind leaderboard.Kind, name1, name2 string) error
	DeleteAllFunc     func(kind leaderboard.Kind) (int, error)
	ReplaceAllFunc    func(kind leaderboard.Kind, players []leaderboard.Player) (ReplaceResult, error)
	RecordExportFunc  func(kind leaderboard.Kind, messages, dropped int, published bool) error
	RecentExportsFunc func(kind leaderboard.Kind, limit int) ([]ExportRecord, error)

	// Call records
	AddPlayerCalls    []leaderboard.Player
	UpdatePlayerCalls []struct {
		OldName string
		Player  leaderboard.Player
	}
	RemovePlayerCalls  []string
	SwapPositionsCalls [][2]string
	ReplaceAllCalls    []struct {
		Kind    leaderboard.Kind
		Players []leaderboard.Player
	}
	RecordExportCalls []ExportRecord
}

// NewMock creates a new mock instance.
func NewMock() *MockStore {
	return &MockStore{}
}

// Reset clears all call records.
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = nil
	m.UpdatePlayerCalls = nil
	m.RemovePlayerCalls = nil
	m.SwapPositionsCalls = nil
	m.ReplaceAllCalls = nil
	m.RecordExportCalls = nil
}

func (m *MockStore) GetPlayers(kind leaderboard.Kind) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetPlayersFunc != nil {
		return m.GetPlayersFunc(kind)
	}
	return []Player{}, nil
}

func (m *MockStore) AddPlayer(kind leaderboard.Kind, p leaderboard.Player) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, p)
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(kind, p)
	}
	return Player{Player: p}, nil
}

func (m *MockStore) UpdatePlayer(kind leaderboard.Kind, oldName string, p leaderboard.Player) (Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatePlayerCalls = append(m.UpdatePlayerCalls, struct {
		OldName string
		Player  leaderboard.Player
	}{oldName, p})
	if m.UpdatePlayerFunc != nil {
		return m.UpdatePlayerFunc(kind, oldName, p)
	}
	return Player{Player: p}, nil
}

func (m *MockStore) RemovePlayer(kind leaderboard.Kind, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RemovePlayerCalls = append(m.RemovePlayerCalls, name)
	if m.RemovePlayerFunc != nil {
		return m.RemovePlayerFunc(kind, name)
	}
	return nil
}

func (m *MockStore) SwapPositions(kind leaderboard.Kind, name1, name2 string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SwapPositionsCalls = append(m.SwapPositionsCalls, [2]string{name1, name2})
	if m.SwapPositionsFunc != nil {
		return m.SwapPositionsFunc(kind, name1, name2)
	}
	return nil
}

func (m *MockStore) DeleteAll(kind leaderboard.Kind) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteAllFunc != nil {
		return m.DeleteAllFunc(kind)
	}
	return 0, nil
}

func (m *MockStore) ReplaceAll(kind leaderboard.Kind, players []leaderboard.Player) (ReplaceResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReplaceAllCalls = append(m.ReplaceAllCalls, struct {
		Kind    leaderboard.Kind
		Players []leaderboard.Player
	}{kind, players})
	if m.ReplaceAllFunc != nil {
		return m.ReplaceAllFunc(kind, players)
	}
	return ReplaceResult{Imported: len(players)}, nil
}

func (m *MockStore) RecordExport(kind leaderboard.Kind, messages, dropped int, published bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RecordExportCalls = append(m.RecordExportCalls, ExportRecord{
		Board:     kind,
		Messages:  messages,
		Dropped:   dropped,
		Published: published,
	})
	if m.RecordExportFunc != nil {
		return m.RecordExportFunc(kind, messages, dropped, published)
	}
	return nil
}

func (m *MockStore) RecentExports(kind leaderboard.Kind, limit int) ([]ExportRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RecentExportsFunc != nil {
		return m.RecentExportsFunc(kind, limit)
	}
	return []ExportRecord{}, nil
}
