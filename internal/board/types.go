package board

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/mauv0809/tierboard/internal/leaderboard"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrDuplicateName  = errors.New("a player with that name already exists")
	ErrEmptyName      = errors.New("player name is required")
	ErrInvalidRank    = errors.New("invalid rank")
	ErrInvalidStars   = errors.New("invalid star value")
	ErrUnknownBoard   = errors.New("unknown leaderboard")
)

// store handles all database operations for the leaderboards.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Player is a stored leaderboard row. Points and Percentage are derived from
// the rating when the row is written.
type Player struct {
	ID string `json:"id"`
	leaderboard.Player
	Points     float64 `json:"points"`
	Percentage float64 `json:"percentage"`
}

// ReplaceResult reports the outcome of a destructive import.
type ReplaceResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ExportRecord is one entry of the export history.
type ExportRecord struct {
	ID        string           `json:"id"`
	Board     leaderboard.Kind `json:"board"`
	Messages  int              `json:"messages"`
	Dropped   int              `json:"dropped"`
	Published bool             `json:"published"`
	CreatedAt int64            `json:"created_at"`
}

// Entries strips the stored fields so the players can be handed to the
// serializer.
func Entries(players []Player) []leaderboard.Player {
	out := make([]leaderboard.Player, 0, len(players))
	for _, p := range players {
		out = append(out, p.Player)
	}
	return out
}
