package processor

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/tierboard/internal/board"
	"github.com/mauv0809/tierboard/internal/leaderboard"
	"github.com/mauv0809/tierboard/internal/metrics"
	"github.com/mauv0809/tierboard/internal/pubsub"
	"github.com/mauv0809/tierboard/internal/rating"
)

// New creates a new Processor. notifier and pubsub may be nil when chat
// posting or queueing is not configured.
func New(store Store, notifier Notifier, metrics metrics.Metrics, pubsub pubsub.PubSubClient, opts ...Option) *Processor {
	p := &Processor{
		store:    store,
		pubsub:   pubsub,
		notifier: notifier,
		metrics:  metrics,
		budget:   leaderboard.DefaultBudget,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithBudget sets the per-message character budget used for exports.
func WithBudget(budget int) Option {
	return func(p *Processor) {
		if budget > 0 {
			p.budget = budget
		}
	}
}

// WithCounters keeps running totals in a MetricsStore.
func WithCounters(counters metrics.MetricsStore) Option {
	return func(p *Processor) {
		p.counters = counters
	}
}

func parseKind(kind leaderboard.Kind) error {
	if _, ok := leaderboard.ParseKind(string(kind)); !ok {
		return fmt.Errorf("%w: %q", board.ErrUnknownBoard, kind)
	}
	return nil
}

func (p *Processor) count(key string, n int) {
	if p.counters != nil {
		p.counters.Add(key, n)
	}
}

func (p *Processor) export(kind leaderboard.Kind) (leaderboard.Result, error) {
	if err := parseKind(kind); err != nil {
		return leaderboard.Result{}, err
	}
	start := time.Now()
	players, err := p.store.GetPlayers(kind)
	if err != nil {
		return leaderboard.Result{}, fmt.Errorf("failed to load %s board: %w", kind, err)
	}
	res := leaderboard.Export(kind, board.Entries(players), p.budget)

	p.metrics.ObserveExportDuration(time.Since(start).Seconds())
	p.metrics.IncExports(string(kind))
	p.metrics.ObserveExportMessages(string(kind), len(res.Messages))
	if res.Dropped > 0 {
		log.Warn("Players left out of export", "board", kind, "dropped", res.Dropped)
		p.metrics.AddPlayersDropped(string(kind), res.Dropped)
		p.count(metrics.KeyPlayersDropped, res.Dropped)
	}
	p.count(metrics.KeyExports, 1)
	log.Debug("Exported board", "board", kind, "players", len(players), "messages", len(res.Messages))
	return res, nil
}

// Export renders and chunks a stored board. Only publishes are written to
// the export history.
func (p *Processor) Export(kind leaderboard.Kind) (leaderboard.Result, error) {
	return p.export(kind)
}

// ExportOverall ranks the classic board by the average of each player's rank
// and star percentages, taking the stars from the FFA board entry with the
// same name.
func (p *Processor) ExportOverall() ([]string, error) {
	classic, err := p.store.GetPlayers(leaderboard.Classic)
	if err != nil {
		return nil, fmt.Errorf("failed to load classic board: %w", err)
	}
	ffa, err := p.store.GetPlayers(leaderboard.FFA)
	if err != nil {
		return nil, fmt.Errorf("failed to load ffa board: %w", err)
	}
	stars := make(map[string]float64, len(ffa))
	for _, pl := range ffa {
		stars[pl.Name] = pl.Stars
	}

	entries := board.Entries(classic)
	for i := range entries {
		entries[i].Stars = stars[entries[i].Name]
	}
	// ties keep the classic order
	sort.SliceStable(entries, func(i, j int) bool {
		return rating.CombinedScore(entries[i].Rank, entries[i].Stars) >
			rating.CombinedScore(entries[j].Rank, entries[j].Stars)
	})
	return leaderboard.ExportOverall(entries, p.budget), nil
}

// Import parses exported text and replaces the board with what was read.
// On a dry run nothing is written.
func (p *Processor) Import(kind leaderboard.Kind, text string, dryRun bool) (ImportResult, error) {
	if err := parseKind(kind); err != nil {
		return ImportResult{}, err
	}
	players := leaderboard.Parse(text, kind)
	if len(players) == 0 {
		return ImportResult{}, ErrNothingRecognized
	}
	log.Info("Parsed leaderboard text", "board", kind, "players", len(players))
	return p.replace(kind, players, dryRun)
}

// ImportPlayers replaces the board with an explicit list of players.
func (p *Processor) ImportPlayers(kind leaderboard.Kind, players []leaderboard.Player, dryRun bool) (ImportResult, error) {
	if err := parseKind(kind); err != nil {
		return ImportResult{}, err
	}
	if len(players) == 0 {
		return ImportResult{}, ErrNoPlayers
	}
	return p.replace(kind, players, dryRun)
}

func (p *Processor) replace(kind leaderboard.Kind, players []leaderboard.Player, dryRun bool) (ImportResult, error) {
	result := ImportResult{Board: kind, Players: players, DryRun: dryRun}
	if dryRun {
		log.Info("[Dry Run] Would replace board", "board", kind, "players", len(players))
		return result, nil
	}

	res, err := p.store.ReplaceAll(kind, players)
	if err != nil {
		return ImportResult{}, fmt.Errorf("failed to replace %s board: %w", kind, err)
	}
	result.Imported = res.Imported
	result.Skipped = res.Skipped

	p.metrics.IncImports(string(kind))
	p.metrics.AddPlayersImported(string(kind), res.Imported)
	p.metrics.AddPlayersSkipped(string(kind), res.Skipped)
	p.count(metrics.KeyImports, 1)
	p.count(metrics.KeyPlayersImported, res.Imported)
	p.count(metrics.KeyPlayersSkipped, res.Skipped)
	return result, nil
}

// PublishLeaderboard exports a board and posts every message to the chat
// channel in order.
func (p *Processor) PublishLeaderboard(ctx context.Context, kind leaderboard.Kind, dryRun bool) (PublishResult, error) {
	if p.notifier == nil {
		return PublishResult{}, ErrNoNotifier
	}
	res, err := p.export(kind)
	if err != nil {
		return PublishResult{}, err
	}

	result := PublishResult{Board: kind, Messages: len(res.Messages), DryRun: dryRun}
	posted, err := p.notifier.SendLeaderboard(ctx, kind, res.Messages, dryRun)
	result.Posted = posted
	if recErr := p.store.RecordExport(kind, len(res.Messages), res.Dropped, err == nil && !dryRun); recErr != nil {
		log.Error("Failed to record export", "error", recErr, "board", kind)
	}
	if err != nil {
		return result, fmt.Errorf("failed to publish %s board: %w", kind, err)
	}
	if !dryRun {
		p.count(metrics.KeyPublishes, 1)
	}
	return result, nil
}

// RequestPublish queues a publish through pubsub when it is configured and
// publishes inline otherwise.
func (p *Processor) RequestPublish(ctx context.Context, kind leaderboard.Kind, dryRun bool) (PublishResult, error) {
	if err := parseKind(kind); err != nil {
		return PublishResult{}, err
	}
	if p.pubsub == nil {
		return p.PublishLeaderboard(ctx, kind, dryRun)
	}

	msg := pubsub.PublishLeaderboardMessage{
		Board:       string(kind),
		DryRun:      dryRun,
		RequestedAt: time.Now().Unix(),
	}
	if err := p.pubsub.SendMessage(ctx, pubsub.EventPublishLeaderboard, msg); err != nil {
		return PublishResult{}, fmt.Errorf("failed to queue publish: %w", err)
	}
	log.Info("Queued leaderboard publish", "board", kind, "dry_run", dryRun)
	return PublishResult{Board: kind, Queued: true, DryRun: dryRun}, nil
}

// HandlePublishMessage runs a publish received from pubsub.
func (p *Processor) HandlePublishMessage(ctx context.Context, data []byte) (PublishResult, error) {
	if p.pubsub == nil {
		return PublishResult{}, fmt.Errorf("pubsub is not configured")
	}
	var msg pubsub.PublishLeaderboardMessage
	if err := p.pubsub.ProcessMessage(data, &msg); err != nil {
		return PublishResult{}, fmt.Errorf("invalid publish message: %w", err)
	}
	log.Info("Processing queued publish", "board", msg.Board, "requested_at", msg.RequestedAt)
	return p.PublishLeaderboard(ctx, leaderboard.Kind(msg.Board), msg.DryRun)
}
