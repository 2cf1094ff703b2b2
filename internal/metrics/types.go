package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
type Service struct {
	Exports            *prometheus.CounterVec
	ExportMessages     *prometheus.HistogramVec
	ExportDuration     prometheus.Histogram
	Imports            *prometheus.CounterVec
	PlayersImported    *prometheus.CounterVec
	PlayersDropped     *prometheus.CounterVec
	PlayersSkipped     *prometheus.CounterVec
	ChatMessagesSent   prometheus.Counter
	ChatMessagesFailed prometheus.Counter
	StartupTimeSeconds prometheus.Gauge
}

// Keys used with MetricsStore.
const (
	KeyExports         = "exports"
	KeyPublishes       = "publishes"
	KeyImports         = "imports"
	KeyPlayersImported = "players_imported"
	KeyPlayersDropped  = "players_dropped"
	KeyPlayersSkipped  = "players_skipped"
)
