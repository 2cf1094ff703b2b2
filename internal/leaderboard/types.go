package leaderboard

import "github.com/mauv0809/tierboard/internal/rating"

// Kind identifies which leaderboard a set of players belongs to.
type Kind string

const (
	Classic Kind = "classic"
	FFA     Kind = "ffa"
)

// DefaultBudget is the soft per-message character limit used when packing
// rendered blocks into chat messages.
const DefaultBudget = 1900

// MessageSeparator is placed between messages when an export is shown as a
// single piece of text. It is never part of a message.
const MessageSeparator = "\n\n---\n\n"

// OverallHeading opens the overall (unbucketed) export.
const OverallHeading = "# Overall Leaderboard\n\n"

// Player is one row of a leaderboard. Only Rank is meaningful on the classic
// board and only Stars on the FFA board.
type Player struct {
	Name       string  `json:"name" msgpack:"name"`
	RobloxLink string  `json:"roblox_link" msgpack:"roblox_link"`
	Position   int     `json:"position,omitempty" msgpack:"position,omitempty"`
	Rank       string  `json:"rank,omitempty" msgpack:"rank,omitempty"`
	Stars      float64 `json:"stars,omitempty" msgpack:"stars,omitempty"`
}

// BandGroup holds the players of one sub-band inside a classic tier.
type BandGroup struct {
	Band    rating.SubBand
	Players []Player
}

// ClassicBucket is one tier of the classic board with its non-empty sub-bands
// in canonical order.
type ClassicBucket struct {
	Tier  rating.Tier
	Bands []BandGroup
}

// FFABucket holds all players sharing one exact star value.
type FFABucket struct {
	Stars   float64
	Players []Player
}

// Result is the outcome of exporting a board.
type Result struct {
	Kind     Kind     `json:"kind"`
	Messages []string `json:"messages"`
	// Dropped counts classic players whose rank could not be placed in a tier.
	Dropped int `json:"dropped"`
}
