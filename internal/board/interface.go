package board

import "github.com/mauv0809/tierboard/internal/leaderboard"

// BoardStore defines the interface for reading and editing leaderboard players.
type BoardStore interface {
	GetPlayers(kind leaderboard.Kind) ([]Player, error)
	AddPlayer(kind leaderboard.Kind, p leaderboard.Player) (Player, error)
	UpdatePlayer(kind leaderboard.Kind, oldName string, p leaderboard.Player) (Player, error)
	RemovePlayer(kind leaderboard.Kind, name string) error
	SwapPositions(kind leaderboard.Kind, name1, name2 string) error
	DeleteAll(kind leaderboard.Kind) (int, error)
	ReplaceAll(kind leaderboard.Kind, players []leaderboard.Player) (ReplaceResult, error)
	RecordExport(kind leaderboard.Kind, messages, dropped int, published bool) error
	RecentExports(kind leaderboard.Kind, limit int) ([]ExportRecord, error)
}
