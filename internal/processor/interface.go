package processor

import (
	"github.com/mauv0809/tierboard/internal/board"
	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/notifier"
)

// Store defines the database operations required by the processor.
type Store interface {
	GetPlayers(kind leaderboard.Kind) ([]board.Player, error)
	ReplaceAll(kind leaderboard.Kind, players []leaderboard.Player) (board.ReplaceResult, error)
	RecordExport(kind leaderboard.Kind, messages, dropped int, published bool) error
}

// Notifier defines the notification operations required by the processor.
type Notifier interface {
	notifier.Notifier
}
