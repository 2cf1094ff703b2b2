package processor

import (
	"errors"

	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/metrics"
	"github.com/mauv0809/tierboard/internal/pubsub"
)

var (
	ErrNothingRecognized = errors.New("no players could be read from the text")
	ErrNoPlayers         = errors.New("no players given")
	ErrNoNotifier        = errors.New("no chat channel configured")
)

// Processor handles the business logic around exporting, importing and
// publishing leaderboards.
type Processor struct {
	store    Store
	pubsub   pubsub.PubSubClient
	notifier Notifier
	metrics  metrics.Metrics
	counters metrics.MetricsStore
	budget   int
}

// Option configures a Processor.
type Option func(*Processor)

// ImportResult is the outcome of an import. Players holds what was read,
// which on a dry run is all that happens.
type ImportResult struct {
	Board    leaderboard.Kind     `json:"board"`
	Players  []leaderboard.Player `json:"players"`
	Imported int                  `json:"imported"`
	Skipped  int                  `json:"skipped"`
	DryRun   bool                 `json:"dry_run"`
}

// PublishResult is the outcome of posting a board to chat.
type PublishResult struct {
	Board    leaderboard.Kind `json:"board"`
	Messages int              `json:"messages"`
	Posted   int              `json:"posted"`
	Queued   bool             `json:"queued"`
	DryRun   bool             `json:"dry_run"`
}
